package codec

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

const (
	receiver = "0x65a3870f48b5237f27f674ec42ea1e017e111d63"

	// transfer(receiver, 10 * 10^18)
	transferCalldata = "0x00000000000000000000000065a3870f48b5237f27f674ec42ea1e017e111d63" +
		"0000000000000000000000000000000000000000000000008ac7230489e80000"
)

func TestNormalizeSignature(t *testing.T) {
	require.Equal(t, "transfer(address, uint256)", NormalizeSignature("transfer(address,uint256)"))
	require.Equal(t, "transfer(address, uint256)", NormalizeSignature("  transfer(address,   uint256) "))
	require.Equal(t, NormalizeSignature("f(uint256,\n\taddress)"), NormalizeSignature("f(uint256, address)"))
}

func TestParseFunctionSignature(t *testing.T) {
	c := New()

	t.Run("canonical", func(t *testing.T) {
		sig, err := c.ParseFunctionSignature("transfer(address,uint256)")
		require.Nil(t, err)
		require.Equal(t, "transfer", sig.Name)
		require.Equal(t, []string{"address", "uint256"}, FormatParameterTypes(sig.Inputs))
		require.Equal(t, "transfer(address,uint256)", sig.String())
	})

	t.Run("human_readable", func(t *testing.T) {
		sig, err := c.ParseFunctionSignature("function transfer(address to, uint256 amount) external returns (bool)")
		require.Nil(t, err)
		require.Equal(t, "transfer(address,uint256)", sig.String())
	})

	t.Run("arrays_and_locations", func(t *testing.T) {
		sig, err := c.ParseFunctionSignature("batch(address[] memory targets, uint256[2] values, bytes calldata data)")
		require.Nil(t, err)
		require.Equal(t, "batch(address[],uint256[2],bytes)", sig.String())
	})

	t.Run("tuple", func(t *testing.T) {
		sig, err := c.ParseFunctionSignature("submit(tuple(address target, uint256 value) call, bool flag)")
		require.Nil(t, err)
		require.Equal(t, "submit((address,uint256),bool)", sig.String())
	})

	t.Run("no_arguments", func(t *testing.T) {
		sig, err := c.ParseFunctionSignature("pause()")
		require.Nil(t, err)
		require.Equal(t, "pause", sig.Name)
		require.Empty(t, sig.Inputs)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, s := range []string{"", "transfer", "transfer(address", "transfer(notatype)", "(address)"} {
			_, err := c.ParseFunctionSignature(s)
			require.ErrorIs(t, err, ErrInvalidSignature, s)
		}
	})
}

func TestEncodeDecodeParameters(t *testing.T) {
	c := New()
	types, err := c.ParseParameterTypes([]string{"address", "uint256"})
	require.Nil(t, err)

	amount, _ := new(big.Int).SetString("10000000000000000000", 10)
	encoded, err := c.EncodeParameters(types, []any{common.HexToAddress(receiver), amount})
	require.Nil(t, err)
	require.Equal(t, transferCalldata, hexutil.Encode(encoded))

	decoded, err := c.DecodeParameters(types, encoded)
	require.Nil(t, err)
	require.Len(t, decoded, 2)
	require.Equal(t, common.HexToAddress(receiver), decoded[0])
	require.Equal(t, 0, amount.Cmp(decoded[1].(*big.Int)))

	again, err := c.EncodeParameters(types, decoded)
	require.Nil(t, err)
	require.Equal(t, encoded, again)
}

func TestEncodeCoercesLooseValues(t *testing.T) {
	c := New()
	types, err := c.ParseParameterTypes([]string{"address", "uint256", "bool", "uint8", "bytes32", "address[]"})
	require.Nil(t, err)

	var args []any
	require.Nil(t, json.Unmarshal([]byte(`[
		"`+receiver+`",
		"10000000000000000000",
		"true",
		7,
		"0x0000000000000000000000000000000000000000000000000000000000000001",
		["`+receiver+`"]
	]`), &args))

	encoded, err := c.EncodeParameters(types, args)
	require.Nil(t, err)

	decoded, err := c.DecodeParameters(types, encoded)
	require.Nil(t, err)
	require.Equal(t, common.HexToAddress(receiver), decoded[0])
	require.Equal(t, "10000000000000000000", decoded[1].(*big.Int).String())
	require.Equal(t, true, decoded[2])
	require.Equal(t, uint8(7), decoded[3])
	require.Equal(t, []common.Address{common.HexToAddress(receiver)}, decoded[5])

	t.Run("overflow", func(t *testing.T) {
		_, err := c.EncodeParameters(types[3:4], []any{"256"})
		require.NotNil(t, err)
	})

	t.Run("count_mismatch", func(t *testing.T) {
		_, err := c.EncodeParameters(types, args[:2])
		require.NotNil(t, err)
	})
}

func TestDecodeCall(t *testing.T) {
	c := New()
	calldata := hexutil.MustDecode(transferCalldata)

	call, err := DecodeCall(c, "transfer(address, uint256)", calldata)
	require.Nil(t, err)
	require.Equal(t, "transfer", call.Signature.Name)
	require.Equal(t, []string{"address", "uint256"}, call.InputTypes())

	_, err = DecodeCall(c, "transfer(address,uint256)", calldata[:40])
	require.NotNil(t, err)

	_, err = DecodeCall(c, "transfer(address,uint256)", append(calldata, 0x01))
	require.NotNil(t, err)

	_, err = DecodeCall(c, "pause()", calldata)
	require.NotNil(t, err)

	call, err = DecodeCall(c, "pause()", nil)
	require.Nil(t, err)
	require.Empty(t, call.Inputs)
}

func TestSelector(t *testing.T) {
	selector, err := Selector(New(), "function transfer(address to, uint256 amount)")
	require.Nil(t, err)
	require.Equal(t, "0xa9059cbb", hexutil.Encode(selector[:]))
}

func TestUnits(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int
		want     string
	}{
		{"10", 18, "10000000000000000000"},
		{"1.5", 18, "1500000000000000000"},
		{"5", 6, "5000000"},
		{"0.000001", 6, "1"},
		{".25", 6, "250000"},
		{"0", 6, "0"},
	}

	for _, tc := range tests {
		n, err := ParseUnits(tc.amount, tc.decimals)
		require.Nil(t, err, tc.amount)
		require.Equal(t, tc.want, n.String(), tc.amount)
	}

	for _, bad := range []string{"", "-1", "1.0000001", "abc", "1e5"} {
		_, err := ParseUnits(bad, 6)
		require.NotNil(t, err, bad)
	}

	require.Equal(t, "10", FormatUnits(big.NewInt(10_000_000), 6))
	require.Equal(t, "0.5", FormatUnits(big.NewInt(500_000), 6))
	require.Equal(t, "0.000001", FormatUnits(big.NewInt(1), 6))
	require.Equal(t, "0", FormatUnits(new(big.Int), 18))
	require.Equal(t, "1.5", FormatEther(big.NewInt(1_500_000_000_000_000_000)))
}

func TestDecodedValuesSurviveJSON(t *testing.T) {
	c := New()
	types, err := c.ParseParameterTypes([]string{"bytes", "bytes32", "uint8[]", "(bytes4,address)", "bytes2[]", "address[]"})
	require.Nil(t, err)

	hash := common.HexToHash("0x01")
	encoded, err := c.EncodeParameters(types, []any{
		"0x010203",
		hash.Hex(),
		[]any{1, 2, 3},
		[]any{"0xa9059cbb", receiver},
		[]any{"0xbeef", "0xcafe"},
		[]any{receiver},
	})
	require.Nil(t, err)

	decoded, err := c.DecodeParameters(types, encoded)
	require.Nil(t, err)
	require.Equal(t, hexutil.Bytes{0x01, 0x02, 0x03}, decoded[0])
	require.Equal(t, hexutil.Bytes(hash.Bytes()), decoded[1])
	require.Equal(t, []any{uint8(1), uint8(2), uint8(3)}, decoded[2])
	require.Equal(t, []any{hexutil.Bytes{0xa9, 0x05, 0x9c, 0xbb}, common.HexToAddress(receiver)}, decoded[3])
	require.Equal(t, []any{hexutil.Bytes{0xbe, 0xef}, hexutil.Bytes{0xca, 0xfe}}, decoded[4])
	require.Equal(t, []common.Address{common.HexToAddress(receiver)}, decoded[5])

	bz, err := json.Marshal(decoded)
	require.Nil(t, err)

	var wire []any
	require.Nil(t, json.Unmarshal(bz, &wire))

	again, err := c.EncodeParameters(types, wire)
	require.Nil(t, err)
	require.Equal(t, encoded, again)
}

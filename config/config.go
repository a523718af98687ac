package config

import (
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nounsgovkit/govkit/chains"
	"github.com/nounsgovkit/govkit/client"
)

const (
	DefaultServerPort = 25456
)

type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type LogDNA struct {
	Secret        string   `toml:"secret"`
	AppName       string   `toml:"app_name"`
	HostName      string   `toml:"host_name"`
	FlushInterval Duration `toml:"flush_interval"`
	MaxBufferLen  int      `toml:"max_buffer_len"`
}

type Etherscan struct {
	Url       string `toml:"url"`
	ApiKey    string `toml:"api_key"`
	CacheSize int    `toml:"cache_size"`
}

type Govkit struct {
	ChainId    uint64    `toml:"chain_id"`
	ServerPort int       `toml:"server_port"`
	Etherscan  Etherscan `toml:"etherscan"`
	LogDNA     LogDNA    `toml:"log_dna"`
}

func Default() Govkit {
	return Govkit{
		ChainId:    chains.Mainnet,
		ServerPort: DefaultServerPort,
		Etherscan: Etherscan{
			Url:       client.DefaultEtherscanUrl,
			CacheSize: client.DefaultCacheSize,
		},
		LogDNA: LogDNA{
			FlushInterval: Duration{10 * time.Second},
			MaxBufferLen:  50,
		},
	}
}

// ReadFile decodes the TOML file at path on top of the defaults.
func ReadFile(path string) (Govkit, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Govkit{}, err
	}
	return cfg, nil
}

// Load is ReadFile that panics on error. An empty path returns the defaults.
func Load(path string) Govkit {
	if path == "" {
		return Default()
	}

	cfg, err := ReadFile(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

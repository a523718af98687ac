package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/logdna/logdna-go/logger"
	"github.com/sisu-network/lib/log"

	"github.com/nounsgovkit/govkit/actions"
	"github.com/nounsgovkit/govkit/client"
	"github.com/nounsgovkit/govkit/codec"
	"github.com/nounsgovkit/govkit/config"
	"github.com/nounsgovkit/govkit/core"
	"github.com/nounsgovkit/govkit/server"
)

func setupApiServer(cfg *config.Govkit, parser *core.Parser) {
	contractInfo := client.NewEtherscanClient(cfg.Etherscan.Url, cfg.Etherscan.CacheSize)

	handler := rpc.NewServer()
	if err := handler.RegisterName("govkit", server.NewApi(parser, contractInfo, cfg.Etherscan.ApiKey)); err != nil {
		panic(err)
	}

	log.Info("Running server at port ", cfg.ServerPort)
	s := server.NewServer(handler, cfg.ServerPort)
	s.Run()
}

func initialize(cfg *config.Govkit) {
	parser := actions.NewDefaultParser(cfg.ChainId, codec.New())
	log.Infof("Transaction parser ready for chain %d", parser.ChainId())

	setupApiServer(cfg, parser)
}

func main() {
	configPath := os.Getenv("GOVKIT_CONFIG_PATH")
	cfg := config.Load(configPath)
	if len(cfg.LogDNA.Secret) > 0 {
		opts := logger.Options{
			App:           cfg.LogDNA.AppName,
			FlushInterval: cfg.LogDNA.FlushInterval.Duration,
			Hostname:      cfg.LogDNA.HostName,
			MaxBufferLen:  cfg.LogDNA.MaxBufferLen,
		}
		logDNA := log.NewDNALogger(cfg.LogDNA.Secret, opts, false)
		log.SetLogger(logDNA)
	}

	initialize(&cfg)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c
}

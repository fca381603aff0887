package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	cmtconfig "github.com/cometbft/cometbft/config"
	cmtflags "github.com/cometbft/cometbft/libs/cli/flags"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/curatenet/datamarket/app"
	app_config "github.com/curatenet/datamarket/config"
	"github.com/curatenet/datamarket/service"
	"github.com/curatenet/datamarket/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var homeDir string

var rootCmd = &cobra.Command{
	Use:   "datamarket",
	Short: "Datamarket is a curation and revenue-sharing ledger",
	Long: `A ledger for community datasets: uploads, staked verification,
contribution voting and purchase revenue sharing.`,
	Run: func(cmd *cobra.Command, args []string) {
		run(cmd, args)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&homeDir, "homedir", "d", "", "home directory")
}

func run(cmd *cobra.Command, args []string) {
	if homeDir == "" {
		homeDir = os.ExpandEnv("$HOME/.datamarket")
	}

	cfg := app_config.DefaultConfig(homeDir)
	viper.SetConfigFile(fmt.Sprintf("%s/%s", homeDir, "config/config.toml"))

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Reading config: %v", err)
	}
	if err := viper.Unmarshal(cfg); err != nil {
		log.Fatalf("Decoding config: %v", err)
	}
	cfg.RootDir = homeDir

	logger := cmtlog.NewTMLogger(cmtlog.NewSyncWriter(os.Stdout))
	logger, err := cmtflags.ParseLogLevel(cfg.LogLevel, logger, cmtconfig.DefaultLogLevel)
	if err != nil {
		log.Fatalf("failed to parse log level: %v", err)
	}

	a, err := app.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("new app err:%v", err)
	}

	gen, err := types.LoadGenesisDoc(cfg.GenesisFile())
	if err != nil {
		log.Fatalf("load genesis err:%v", err)
	}
	if err = a.InitChain(gen); err != nil {
		log.Fatalf("init chain err:%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var indexer *service.ActivityIndexer
	if cfg.Index.Enable {
		indexer, err = service.NewActivityIndexer(logger, cfg.IndexPath(), a.Subscribe())
		if err != nil {
			log.Fatalf("new indexer err:%v", err)
		}
		go indexer.Start(ctx)
	}

	svc := service.NewService(cfg.API.ListenAddress, logger, a, indexer)
	go func() {
		if err := svc.Start(); err != nil {
			log.Fatalf("service err:%v", err)
		}
	}()

	defer func() {
		log.Println("shut down...")
		done := make(chan struct{})
		go func() {
			defer close(done)
			cancel()
			a.Stop()
			if indexer != nil {
				if err := indexer.Close(); err != nil {
					log.Printf("close indexer err:%v", err)
				}
			}
		}()
		timer := time.NewTimer(time.Second * 10)
		select {
		case <-timer.C:
			os.Exit(1)
		case <-done:
			return
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}

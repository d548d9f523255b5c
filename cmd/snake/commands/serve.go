package commands

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hoangpq/snake-engine/config"
	"github.com/hoangpq/snake-engine/replay"
	"github.com/hoangpq/snake-engine/replay/filestore"
	"github.com/hoangpq/snake-engine/replay/redisstore"
	"github.com/hoangpq/snake-engine/server"
)

var (
	listenAddr   string
	storeBackend string
)

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", config.ListenAddr, "address to serve the api on")
	serveCmd.Flags().StringVar(&storeBackend, "backend", config.StoreBackend, "replay store backend, one of: inmem, file, redis")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve rounds over http for browser clients",
	Run: func(*cobra.Command, []string) {
		store, err := buildStore()
		if err != nil {
			log.WithError(err).Fatal("failed to open replay store")
		}
		server.New(listenAddr, store).WaitForExit()
	},
}

func buildStore() (replay.Store, error) {
	var store replay.Store
	switch storeBackend {
	case "inmem":
		store = replay.InMemStore()
	case "file":
		store = filestore.NewFileStore(config.ReplayDir)
	case "redis":
		rs, err := redisstore.NewStore(config.RedisURL)
		if err != nil {
			return nil, err
		}
		store = rs
	default:
		return nil, fmt.Errorf("unknown store backend %q", storeBackend)
	}
	log.WithField("backend", storeBackend).Info("using replay store")
	return replay.InstrumentStore(store), nil
}

package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/common"
	"github.com/matst80/slask-catalog/pkg/filterstate"
	"github.com/matst80/slask-catalog/pkg/server"
	"github.com/matst80/slask-catalog/pkg/storage"
	catalogSync "github.com/matst80/slask-catalog/pkg/sync"
	"github.com/matst80/slask-catalog/pkg/tracking"
	"github.com/matst80/slask-catalog/pkg/types"
)

var enableProfiling = flag.Bool("profiling", true, "enable profiling endpoints")
var rabbitUrl = os.Getenv("RABBIT_URL")
var rabbitVHost = os.Getenv("RABBIT_VHOST")
var clientName = os.Getenv("NODE_NAME")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var dataDir = os.Getenv("DATA_DIR")

var listenAddress = ":8080"
var debugAddress = ":8081"

var rabbitConfig = catalogSync.RabbitConfig{
	Url:   rabbitUrl,
	VHost: rabbitVHost,
}

var cat = catalog.NewCatalog()
var db *storage.DiskStorage

var srv = server.WebServer{
	Catalog: cat,
}

var masterHandler *catalogSync.RabbitMasterChangeHandler

var done = false

func init() {
	flag.Parse()

	if addr := os.Getenv("LISTEN_ADDRESS"); addr != "" {
		listenAddress = addr
	}
	if addr := os.Getenv("DEBUG_ADDRESS"); addr != "" {
		debugAddress = addr
	}
	if dataDir == "" {
		dataDir = "data"
	}
	db = storage.NewDiskStorage(dataDir)
	srv.Db = db

	auth, err := server.NewGoogleAuth()
	if err != nil {
		log.Printf("google auth disabled: %v", err)
		srv.Auth = &server.MockAuth{}
	} else {
		srv.Auth = auth
	}
}

func loadCatalog(wg *sync.WaitGroup) {
	log.Printf("amqp url: %s", rabbitUrl)
	log.Printf("clientName: %s", clientName)

	if redisUrl != "" {
		srv.Cache = server.NewCache(redisUrl, redisPassword, 0)
		log.Printf("response cache enabled, url: %s", redisUrl)
	}

	if rabbitUrl != "" {
		trk, err := tracking.NewRabbitTracking(rabbitUrl, "global")
		if err != nil {
			log.Fatalf("Failed to create rabbit tracking: %v", err)
		}
		srv.Tracking = trk
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := db.LoadSettings(); err != nil {
			log.Printf("Failed to load settings: %v", err)
		}
		count := 0
		err := db.LoadProducts(func(p *types.Product) {
			cat.Upsert(p)
			count++
		})
		if err != nil {
			log.Printf("Failed to load catalog %v", err)
		} else {
			log.Printf("Catalog loaded, %d products", count)
		}

		if rabbitUrl != "" && clientName == "" {
			log.Println("Starting as master")
			masterTransport := &catalogSync.RabbitTransportMaster{
				RabbitConfig: rabbitConfig,
			}
			if err := masterTransport.Connect(); err != nil {
				log.Printf("Failed to connect to RabbitMQ as master, %v", err)
			} else {
				log.Print("Connected to RabbitMQ as master")
				masterHandler = catalogSync.NewRabbitMasterChangeHandler(masterTransport)
				cat.ChangeHandler = masterHandler
			}
		} else if rabbitUrl != "" {
			log.Printf("Starting as client: %s", clientName)
			clientTransport := catalogSync.RabbitTransportClient{
				ClientName:   clientName,
				RabbitConfig: rabbitConfig,
			}
			if err := clientTransport.Connect(cat); err != nil {
				log.Fatalf("Failed to connect to RabbitMQ as client, %v", err)
			}
		} else {
			log.Printf("Starting as standalone")
		}

		types.CurrentSettings.RLock()
		sessionTtl := time.Duration(types.CurrentSettings.SessionTtlHours) * time.Hour
		types.CurrentSettings.RUnlock()
		srv.Sessions = filterstate.NewStore(cat, sessionTtl)

		done = true
	}()
}

func saveHook(ctx context.Context) error {
	if masterHandler != nil {
		masterHandler.Flush()
	}
	items := make([]*types.Product, 0, cat.Len())
	cat.All(func(p *types.Product) {
		items = append(items, p)
	})
	if err := db.SaveProducts(items); err != nil {
		return err
	}
	return db.SaveSettings()
}

func main() {
	wg := sync.WaitGroup{}
	loadCatalog(&wg)

	debugMux := http.NewServeMux()
	debugMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if !done {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	debugMux.Handle("/metrics", promhttp.Handler())
	if enableProfiling != nil && *enableProfiling {
		log.Println("Profiling enabled")
		debugMux.HandleFunc("/debug/pprof/", pprof.Index)
		debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	go func() {
		log.Printf("Starting debug server %v", debugAddress)
		log.Fatal(http.ListenAndServe(debugAddress, debugMux))
	}()

	log.Println("Waiting for catalog to load...")
	wg.Wait()
	log.Println("Starting api")

	mux := http.NewServeMux()
	mux.Handle("/admin/", http.StripPrefix("/admin", srv.AdminHandler()))
	mux.Handle("/api/", http.StripPrefix("/api", srv.ClientHandler()))

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       10 * time.Second,
	})
	apiServer := common.NewServerWithTimeouts(&http.Server{Addr: listenAddress, Handler: mux}, timeouts)
	common.RunServerWithShutdown(apiServer, "catalog api", timeouts.Shutdown, timeouts.Hook, saveHook)
}

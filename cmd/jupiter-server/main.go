// Command jupiter-server hosts a server-role site per document (chosen by
// the "doc" query parameter) and accepts a single client connection per
// document over WebSocket, adapted from the teacher's
// cmd/editor-service/main.go.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"jupiter/internal/config"
	"jupiter/internal/discovery"
	"jupiter/internal/logging"
	"jupiter/internal/session"
	"jupiter/internal/store"
	"jupiter/internal/transport"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func main() {
	cfg := config.Load()
	logging.Initialize(cfg.LogLevel)
	defer logging.Sync()

	session.Initialize()

	var st *store.Store
	if cfg.UseDB {
		var err error
		st, err = store.Open(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.MigrationsPath)
		if err != nil {
			logging.Log.Warn("could not connect to database, running in memory-only mode", zap.Error(err))
		} else {
			defer st.Close()
			logging.Log.Info("database connection established")
		}
	}

	hub := transport.NewHub()
	go hub.Run()

	if st != nil {
		stopAutosave := startAutosave(hub, st, time.Duration(cfg.AutosaveSecs)*time.Second)
		defer stopAutosave()
	}

	if cfg.DiscoveryEnabled {
		server, err := discovery.Advertise(cfg.DiscoveryName, mustAtoi(cfg.Port), "default")
		if err != nil {
			logging.Log.Warn("mDNS advertise failed", zap.Error(err))
		} else {
			defer server.Shutdown()
			logging.Log.Info("advertising on mDNS", zap.String("name", cfg.DiscoveryName))
		}
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		documentID := r.URL.Query().Get("doc")
		if documentID == "" {
			documentID = "default"
		}
		peerName := r.URL.Query().Get("name")
		if peerName == "" {
			peerName = "anonymous"
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Log.Error("websocket upgrade failed", zap.Error(err))
			return
		}

		initial := ""
		if st != nil {
			if doc, err := st.GetDocument(documentID); err == nil {
				initial = doc.Content
			} else if err == sql.ErrNoRows {
				if err := st.CreateDocument(documentID, initial); err != nil {
					logging.Log.Warn("could not create document row", zap.String("document_id", documentID), zap.Error(err))
				}
			}
		}

		client, err := transport.NewClient(hub, conn, documentID, peerName, initial)
		if err != nil {
			logging.Log.Warn("client rejected", zap.Error(err))
			conn.Close()
			return
		}

		client.SendInit(initial)
		go client.WritePump()
		client.ReadPump()
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: mux}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logging.Log.Info("shutting down")
		hub.Shutdown()
		srv.Shutdown(context.Background())
	}()

	logging.Log.Info("server running", zap.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.Log.Fatal("server error", zap.Error(err))
	}
}

// startAutosave periodically sweeps every live document engine and flushes
// whatever has changed since the last pass to Postgres, the way the
// teacher's service.go saved on a timer instead of on every keystroke.
// It returns a function that stops the sweep and performs one last flush.
func startAutosave(hub *transport.Hub, st *store.Store, interval time.Duration) func() {
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				flushDirtyDocuments(hub, st)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
		flushDirtyDocuments(hub, st)
	}
}

func flushDirtyDocuments(hub *transport.Hub, st *store.Store) {
	for documentID, engine := range hub.Engines() {
		content, dirty := engine.Snapshot()
		if !dirty {
			continue
		}
		version := engine.Version()
		if err := st.UpdateDocument(documentID, content, version); err != nil {
			logging.Log.Warn("autosave: update failed", zap.String("document_id", documentID), zap.Error(err))
			continue
		}
		if err := st.SaveDocumentHistory(documentID, content, "autosave", version); err != nil {
			logging.Log.Warn("autosave: history write failed", zap.String("document_id", documentID), zap.Error(err))
			continue
		}
		engine.MarkSaved()
	}
}

func mustAtoi(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 8080
		}
		n = n*10 + int(c-'0')
	}
	if n == 0 {
		return 8080
	}
	return n
}

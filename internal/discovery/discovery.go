// Package discovery advertises and locates Jupiter peers on the local
// network via mDNS/DNS-SD, grounded on TypeTerrors-go.model-orchestrator's
// internal/discovery/discovery.go (same grandcat/zeroconf publish/browse
// shape) and original_source/inc/rendezvous.hpp's sketch of a
// "_lobby._tcp"-style rendezvous service. Entirely outside the OT engine:
// cmd/jupiter-peer wires this to a transport dial, nothing in pkg/ot
// imports it.
package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

const serviceName = "_jupiter._tcp"
const domain = "local."

// Peer is one server advertised on the network.
type Peer struct {
	Instance   string
	Host       string
	Port       int
	DocumentID string
}

// Advertise registers this process as a Jupiter server reachable at port,
// editing the document named documentID. The returned server must be shut
// down when the process stops accepting peers.
func Advertise(instanceName string, port int, documentID string) (*zeroconf.Server, error) {
	server, err := zeroconf.Register(
		instanceName,
		serviceName,
		domain,
		port,
		[]string{"documentId=" + documentID},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("discovery: register: %w", err)
	}
	return server, nil
}

// Browse returns servers visible on the network within timeout, one-shot
// (unlike TypeTerrors' continually-refreshed Discovery, a jupiter-peer
// only needs a snapshot at connect time).
func Browse(ctx context.Context, timeout time.Duration) ([]Peer, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("discovery: resolver: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu    sync.Mutex
		peers []Peer
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			if entry == nil {
				continue
			}
			docID := ""
			for _, txt := range entry.Text {
				if kv := splitTxt(txt); kv[0] == "documentId" {
					docID = kv[1]
				}
			}
			mu.Lock()
			peers = append(peers, Peer{
				Instance:   entry.Instance,
				Host:       entry.HostName,
				Port:       entry.Port,
				DocumentID: docID,
			})
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, serviceName, domain, entries); err != nil {
		return nil, fmt.Errorf("discovery: browse: %w", err)
	}
	<-ctx.Done()
	<-done

	mu.Lock()
	defer mu.Unlock()
	return peers, nil
}

func splitTxt(txt string) [2]string {
	for i := 0; i < len(txt); i++ {
		if txt[i] == '=' {
			return [2]string{txt[:i], txt[i+1:]}
		}
	}
	return [2]string{txt, ""}
}

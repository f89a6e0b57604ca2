// Command jupiter-peer is a CLI client: it discovers a jupiter-server on
// the local network (or dials one directly), joins a document as the
// client-role site, and applies operations typed as scenario-style
// entries on stdin, printing the document after each one. It keeps its
// own ot.Site so del() can slice the live document the way the harness
// does, rather than trusting the caller's offsets blind.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"jupiter/internal/discovery"
	"jupiter/internal/transport"
	"jupiter/pkg/ot"
)

func main() {
	var (
		addr       = flag.String("addr", "", "server address (host:port); if empty, browse mDNS")
		documentID = flag.String("doc", "default", "document id to join")
		name       = flag.String("name", "peer", "display name")
	)
	flag.Parse()

	target := *addr
	if target == "" {
		peers, err := discovery.Browse(context.Background(), 3*time.Second)
		if err != nil || len(peers) == 0 {
			fmt.Fprintln(os.Stderr, "no server found via mDNS; pass -addr host:port")
			os.Exit(1)
		}
		target = fmt.Sprintf("%s:%d", peers[0].Host, peers[0].Port)
	}

	u := url.URL{Scheme: "ws", Host: target, Path: "/ws", RawQuery: "doc=" + *documentID + "&name=" + *name}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dial:", err)
		os.Exit(1)
	}
	defer conn.Close()

	var (
		mu   sync.Mutex
		site *ot.Site
		doc  *ot.Document
	)

	ready := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var frame transport.Frame
			if err := json.Unmarshal(message, &frame); err != nil {
				continue
			}

			switch frame.Type {
			case "init":
				var siteID uint32 = 2
				if frame.Peer != nil {
					siteID = frame.Peer.SiteID
				}
				mu.Lock()
				doc = ot.NewDocument(frame.Content)
				site = ot.NewSite(doc, siteID, true)
				mu.Unlock()
				fmt.Printf("joined %q as site %d: %q\n", *documentID, siteID, frame.Content)
				close(ready)

			case "record":
				if frame.Record == nil {
					continue
				}
				rec, err := transport.DecodeRecord(*frame.Record)
				if err != nil {
					fmt.Fprintln(os.Stderr, "bad record:", err)
					continue
				}
				mu.Lock()
				if site != nil {
					if err := site.RemoteOp(rec); err != nil {
						fmt.Fprintln(os.Stderr, "remote_op:", err)
					} else {
						fmt.Printf("<- %q\n", doc.String())
					}
				}
				mu.Unlock()

			case "error":
				fmt.Fprintln(os.Stderr, "server error:", frame.Error)
			}
		}
	}()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		fmt.Fprintln(os.Stderr, "timed out waiting for init")
		os.Exit(1)
	}

	fmt.Println("type ins(TEXT@POS), del(FROM-TO), or set(FULL_TEXT) lines, blank line to quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		mu.Lock()
		op, err := parseOp(line, doc)
		if err != nil {
			mu.Unlock()
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		rec, err := site.LocalOp(op)
		if err != nil {
			mu.Unlock()
			fmt.Fprintln(os.Stderr, "local_op:", err)
			continue
		}
		fmt.Printf("-> %q\n", doc.String())
		mu.Unlock()

		dto := transport.EncodeRecord(rec)
		frame := transport.Frame{Type: "record", DocumentID: *documentID, Record: &dto}
		data, _ := json.Marshal(frame)
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			fmt.Fprintln(os.Stderr, "write:", err)
			break
		}
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	<-done
}

func parseOp(line string, doc *ot.Document) (ot.Operation, error) {
	switch {
	case strings.HasPrefix(line, "ins("):
		body := strings.TrimSuffix(strings.TrimPrefix(line, "ins("), ")")
		parts := strings.SplitN(body, "@", 2)
		if len(parts) != 2 {
			return ot.Operation{}, fmt.Errorf("malformed insert %q", line)
		}
		pos, err := strconv.Atoi(parts[1])
		if err != nil {
			return ot.Operation{}, fmt.Errorf("malformed insert position %q", line)
		}
		return ot.NewInsert(pos, parts[0]), nil

	case strings.HasPrefix(line, "del("):
		body := strings.TrimSuffix(strings.TrimPrefix(line, "del("), ")")
		parts := strings.SplitN(body, "-", 2)
		if len(parts) != 2 {
			return ot.Operation{}, fmt.Errorf("malformed delete %q", line)
		}
		from, err1 := strconv.Atoi(parts[0])
		to, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || to < from {
			return ot.Operation{}, fmt.Errorf("malformed delete range %q", line)
		}
		return ot.NewDelete(from, doc.Slice(from, to-from)), nil

	case strings.HasPrefix(line, "set("):
		// set(FULL_TEXT) is a convenience for callers that only see the
		// whole buffer after an edit (a textarea onChange, say): it diffs
		// against the live document and emits the single insert or delete
		// that explains the difference.
		body := strings.TrimSuffix(strings.TrimPrefix(line, "set("), ")")
		return ot.GenerateOperation(doc.String(), body), nil

	default:
		return ot.Operation{}, fmt.Errorf("unrecognized op %q", line)
	}
}

package ot

import "testing"

// siteOp is one SITE->OP entry from a scenario line (§6.3/§8).
type siteOp struct {
	site int // 1 = server, 2 = client
	op   func(d *Document) Operation
}

func insAt(pos int, text string) func(d *Document) Operation {
	return func(d *Document) Operation { return NewInsert(pos, text) }
}

func delRange(from, to int) func(d *Document) Operation {
	return func(d *Document) Operation { return NewDelete(from, d.Slice(from, to-from)) }
}

// runScenario drives two sites per §6.3: each op is applied locally on its
// named site via LocalOp, then every record produced is exchanged via
// RemoteOp in the order it was produced. It returns both final documents.
func runScenario(t *testing.T, initial string, ops []siteOp) (string, string) {
	t.Helper()

	serverDoc := NewDocument(initial)
	clientDoc := NewDocument(initial)
	server := NewSite(serverDoc, 1, false)
	client := NewSite(clientDoc, 2, true)

	var serverOut, clientOut []Record
	for _, so := range ops {
		switch so.site {
		case 1:
			rec, err := server.LocalOp(so.op(serverDoc))
			if err != nil {
				t.Fatalf("server local_op: %v", err)
			}
			serverOut = append(serverOut, rec)
		case 2:
			rec, err := client.LocalOp(so.op(clientDoc))
			if err != nil {
				t.Fatalf("client local_op: %v", err)
			}
			clientOut = append(clientOut, rec)
		default:
			t.Fatalf("bad site %d", so.site)
		}
	}

	for _, rec := range serverOut {
		if err := client.RemoteOp(rec); err != nil {
			t.Fatalf("client remote_op: %v", err)
		}
	}
	for _, rec := range clientOut {
		if err := server.RemoteOp(rec); err != nil {
			t.Fatalf("server remote_op: %v", err)
		}
	}

	return serverDoc.String(), clientDoc.String()
}

func TestScenarios(t *testing.T) {
	cases := []struct {
		name     string
		initial  string
		ops      []siteOp
		expected string
	}{
		{
			"disjoint inserts",
			"abc",
			[]siteOp{{1, insAt(1, "X")}, {2, insAt(2, "Y")}},
			"aXbYc",
		},
		{
			"insert inside deleted range collapses left",
			"abcdef",
			[]siteOp{{1, delRange(1, 4)}, {2, insAt(3, "X")}},
			"aXef",
		},
		{
			"symmetric of scenario 2",
			"abcdef",
			[]siteOp{{1, insAt(2, "X")}, {2, delRange(1, 4)}},
			"aXef",
		},
		{
			"overlapping deletes union removed",
			"abcdef",
			[]siteOp{{1, delRange(1, 3)}, {2, delRange(2, 5)}},
			"af",
		},
		{
			"same position inserts, server before client",
			"abc",
			[]siteOp{{1, insAt(1, "X")}, {2, insAt(1, "Y")}},
			"aXYbc",
		},
		{
			"inner delete subsumed by outer",
			"abcdef",
			[]siteOp{{1, delRange(1, 5)}, {2, delRange(2, 3)}},
			"af",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			gotServer, gotClient := runScenario(t, c.initial, c.ops)
			if gotServer != c.expected || gotClient != c.expected {
				t.Fatalf("server=%q client=%q, want both %q", gotServer, gotClient, c.expected)
			}
		})

		t.Run(c.name+" reversed", func(t *testing.T) {
			reversed := make([]siteOp, len(c.ops))
			copy(reversed, c.ops)
			for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
				reversed[i], reversed[j] = reversed[j], reversed[i]
			}
			gotServer, gotClient := runScenario(t, c.initial, reversed)
			if gotServer != gotClient {
				t.Fatalf("sites diverged: server=%q client=%q", gotServer, gotClient)
			}
		})
	}
}

func TestRemoteOpProtocolViolation(t *testing.T) {
	doc := NewDocument("abc")
	site := NewSite(doc, 1, false)

	bad := Record{FromSite: 2, Time: VectorTime{Local: 5, Remote: 0}, Op: NewInsert(0, "x")}
	if err := site.RemoteOp(bad); err == nil {
		t.Fatal("expected protocol violation for record.time.local != vector_time.remote")
	}
}

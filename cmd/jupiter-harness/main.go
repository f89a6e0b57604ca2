// Command jupiter-harness runs scenario files against the Jupiter engine
// in pkg/ot and reports a pass/fail tally, per spec §6.3-§6.4.
package main

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"jupiter/pkg/ot"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: jupiter-harness <scenario-file>")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "usage: jupiter-harness <scenario-file>")
		os.Exit(1)
	}
	defer f.Close()

	passed, total := 0, 0
	scanner := bufio.NewScanner(f)
	lineNo := 0
	testNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		testNo++
		total++
		if err := runLine(line); err != nil {
			fmt.Printf("Test %d(%d): %s\n", testNo, lineNo, err)
			continue
		}
		fmt.Printf("Test %d(%d): passed!\n", testNo, lineNo)
		passed++
	}

	fmt.Printf("%d out of %d tests passed!\n", passed, total)
}

// opPattern matches one SITE->OP entry: "1->ins(X@1)" or "2->del(1-4)".
var opPattern = regexp.MustCompile(`^([12])->(ins|del)\((.*)\)$`)

func runLine(line string) error {
	fields := strings.SplitN(line, "|", 3)
	if len(fields) != 3 {
		return fmt.Errorf("malformed line, want INIT|OPS|EXPECTED")
	}
	initial, opsField, expected := fields[0], fields[1], fields[2]

	serverDoc := ot.NewDocument(initial)
	clientDoc := ot.NewDocument(initial)
	server := ot.NewSite(serverDoc, 1, false)
	client := ot.NewSite(clientDoc, 2, true)

	var serverOut, clientOut []ot.Record

	for _, entry := range strings.Split(opsField, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		site, op, err := parseEntry(entry, serverDoc, clientDoc)
		if err != nil {
			return err
		}

		switch site {
		case 1:
			rec, err := server.LocalOp(op)
			if err != nil {
				return err
			}
			serverOut = append(serverOut, rec)
		case 2:
			rec, err := client.LocalOp(op)
			if err != nil {
				return err
			}
			clientOut = append(clientOut, rec)
		}
	}

	for _, rec := range serverOut {
		if err := client.RemoteOp(rec); err != nil {
			return err
		}
	}
	for _, rec := range clientOut {
		if err := server.RemoteOp(rec); err != nil {
			return err
		}
	}

	gotServer, gotClient := serverDoc.String(), clientDoc.String()
	if gotServer != gotClient {
		return fmt.Errorf("sites diverged: server=%q client=%q", gotServer, gotClient)
	}
	if gotServer != expected {
		return fmt.Errorf("got %q, want %q", gotServer, expected)
	}
	return nil
}

func parseEntry(entry string, serverDoc, clientDoc *ot.Document) (int, ot.Operation, error) {
	m := opPattern.FindStringSubmatch(entry)
	if m == nil {
		return 0, ot.Operation{}, fmt.Errorf("malformed op %q", entry)
	}

	site, _ := strconv.Atoi(m[1])
	kind, body := m[2], m[3]

	var doc *ot.Document
	if site == 1 {
		doc = serverDoc
	} else {
		doc = clientDoc
	}

	switch kind {
	case "ins":
		parts := strings.SplitN(body, "@", 2)
		if len(parts) != 2 {
			return 0, ot.Operation{}, fmt.Errorf("malformed insert %q", entry)
		}
		pos, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, ot.Operation{}, fmt.Errorf("malformed insert position in %q", entry)
		}
		return site, ot.NewInsert(pos, parts[0]), nil

	case "del":
		parts := strings.SplitN(body, "-", 2)
		if len(parts) != 2 {
			return 0, ot.Operation{}, fmt.Errorf("malformed delete %q", entry)
		}
		from, err1 := strconv.Atoi(parts[0])
		to, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || to < from {
			return 0, ot.Operation{}, fmt.Errorf("malformed delete range in %q", entry)
		}
		return site, ot.NewDelete(from, doc.Slice(from, to-from)), nil
	}

	return 0, ot.Operation{}, fmt.Errorf("unknown op %q", entry)
}

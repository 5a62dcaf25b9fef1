package service

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"testing"

	"github.com/go-kit/log"
)

// helperPoints and helperRecordSize shape the data the fake worker pushes on read.
const (
	helperPoints     = 10
	helperRecordSize = 12
)

// helperSpawner spawns this test binary as a fake native worker running mode.
func helperSpawner(t *testing.T, mode string) SpawnFunc {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	return NewNativeSpawner(os.Args[0], []string{"-test.run=TestHelperProcess", "--", mode}, log.NewNopLogger())
}

// TestHelperProcess is not a real test. It speaks the native worker stdio protocol when re-executed
// by helperSpawner.
//
// Modes: worker (well-behaved), noready (refuses the handshake), exit (dies before the handshake),
// stderr (answers every request on stderr), stderrlate (writes stderr, then a stdout reply to the same request).
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	mode := ""
	for i, arg := range os.Args {
		if arg == "--" && i+1 < len(os.Args) {
			mode = os.Args[i+1]
			break
		}
	}
	os.Exit(runHelperWorker(mode))
}

func runHelperWorker(mode string) int {
	out := bufio.NewWriter(os.Stdout)
	reply := func(v map[string]any) {
		b, _ := json.Marshal(v)
		_, _ = out.Write(append(b, '\n'))
		_ = out.Flush()
	}

	switch mode {
	case "exit":
		return 2
	case "noready":
		reply(map[string]any{"ready": 0, "message": "no license"})
		_, _ = io.Copy(io.Discard, os.Stdin)
		return 0
	}
	reply(map[string]any{"ready": 1})

	definition := ""
	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 1<<20), 1<<20)
	for in.Scan() {
		var req struct {
			Command string         `json:"command"`
			Params  map[string]any `json:"params"`
		}
		if err := json.Unmarshal(in.Bytes(), &req); err != nil {
			fmt.Fprintln(os.Stderr, "bad request")
			continue
		}
		switch mode {
		case "stderr":
			fmt.Fprintln(os.Stderr, "engine failure")
			continue
		case "stderrlate":
			fmt.Fprintln(os.Stderr, "engine warning")
			reply(map[string]any{"status": 1, "count": helperPoints})
			continue
		}

		switch req.Command {
		case "create":
			desc, _ := req.Params["pipelineDesc"].(string)
			if strings.Contains(desc, "invalid") {
				reply(map[string]any{"status": 0, "message": "Invalid pipeline"})
				continue
			}
			definition = desc
			reply(map[string]any{"status": 1})
		case "destroy":
			definition = ""
			reply(map[string]any{"status": 1})
		case "isValid":
			reply(map[string]any{"status": 1, "valid": definition != ""})
		case "getNumPoints":
			// Non-object values are noise the client must skip.
			_, _ = out.WriteString("42\n\"noise\"\n")
			reply(map[string]any{"status": 1, "count": helperPoints})
		case "getSchema":
			reply(map[string]any{"status": 1, "schema": []map[string]any{{"name": "X", "type": "floating", "size": 4}}})
		case "getSrs":
			reply(map[string]any{"status": 1, "srs": "EPSG:3857"})
		case "getStats":
			reply(map[string]any{"status": 1, "stats": map[string]any{"X": map[string]any{"min": 0, "max": 1}}})
		case "getFills":
			reply(map[string]any{"status": 1, "fills": []int{1, 4, 16}})
		case "getBounds":
			reply(map[string]any{"status": 1, "bounds": []float64{0, 0, 0, 1, 1, 1}})
		case "serialize":
			reply(map[string]any{"status": 1, "serialized": map[string]any{"pipeline": definition}})
		case "read":
			host, _ := req.Params["host"].(string)
			port, _ := req.Params["port"].(float64)
			reply(map[string]any{"status": 1, "numPoints": helperPoints, "numBytes": helperPoints * helperRecordSize})
			pushHelperData(host, int(port))
		case "crash":
			return 3
		case "hang":
		default:
			reply(map[string]any{"status": 0, "message": "Unknown command " + req.Command})
		}
	}
	return 0
}

func pushHelperData(host string, port int) {
	conn, err := net.Dial("tcp", net.JoinHostPort(host, fmt.Sprint(port)))
	if err != nil {
		return
	}
	defer conn.Close()
	data := make([]byte, helperPoints*helperRecordSize)
	for i := range data {
		data[i] = byte(i)
	}
	_, _ = conn.Write(data)
}

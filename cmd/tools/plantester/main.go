// Command plantester exercises the recovery-plan endpoint from the terminal.
// It posts a sample (or supplied) story and prints the SSE panel events as
// they arrive, which is the quickest way to smoke-test a configured server.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base URL")
	feelings := flag.String("feelings", "We broke up two weeks ago after three years and I can't stop checking their profile.", "story to submit")
	screenshot := flag.String("screenshot", "", "optional path to a chat screenshot (jpg/png)")
	flag.Parse()

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	if err := form.WriteField("feelings", *feelings); err != nil {
		fatalf("failed to build form: %v", err)
	}

	if *screenshot != "" {
		if err := attachFile(form, *screenshot); err != nil {
			fatalf("failed to attach screenshot: %v", err)
		}
	}

	if err := form.Close(); err != nil {
		fatalf("failed to finalize form: %v", err)
	}

	resp, err := http.Post(*baseURL+"/api/plan", form.FormDataContentType(), body)
	if err != nil {
		fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		fatalf("server answered %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	printEvents(resp.Body)
}

func attachFile(form *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	part, err := form.CreateFormFile("screenshots", filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

func printEvents(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	event := ""
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			printEvent(event, strings.TrimPrefix(line, "data: "))
		}
	}
	if err := scanner.Err(); err != nil {
		fatalf("stream read failed: %v", err)
	}
}

func printEvent(event, data string) {
	switch event {
	case "panel", "panel_error":
		var panel struct {
			Heading string `json:"heading"`
			Content string `json:"content"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal([]byte(data), &panel); err != nil {
			fmt.Printf("== %s (unparseable): %s\n", event, data)
			return
		}
		fmt.Printf("\n== %s ==\n", panel.Heading)
		if panel.Error != "" {
			fmt.Printf("error: %s\n", panel.Error)
			return
		}
		fmt.Println(panel.Content)
	default:
		fmt.Printf("-- %s: %s\n", event, data)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

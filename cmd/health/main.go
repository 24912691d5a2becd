package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/valyala/fasthttp"
)

// health probes a running pairlog server and exits 0 when it is ready.
// Desktop supervisors and packaging scripts poll this instead of shelling
// out to curl.
func main() {
	addr := flag.String("addr", "http://127.0.0.1:4517", "base URL of the pairlog server")
	path := flag.String("path", "/readyz", "probe path (/healthz for liveness only)")
	timeout := flag.Duration("timeout", 2*time.Second, "per-request timeout")
	wait := flag.Duration("wait", 0, "keep retrying for this long before giving up")
	quiet := flag.Bool("quiet", false, "suppress output, exit code only")
	flag.Parse()

	url := *addr + *path
	deadline := time.Now().Add(*wait)

	for {
		status, body, err := probe(url, *timeout)
		if err == nil && status == fasthttp.StatusOK {
			if !*quiet {
				fmt.Printf("%s\n", body)
			}
			return
		}
		if time.Now().After(deadline) {
			if !*quiet {
				if err != nil {
					fmt.Fprintf(os.Stderr, "probe %s: %v\n", url, err)
				} else {
					fmt.Fprintf(os.Stderr, "probe %s: status %d\n", url, status)
				}
			}
			os.Exit(1)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func probe(url string, timeout time.Duration) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	if err := fasthttp.DoTimeout(req, resp, timeout); err != nil {
		return 0, nil, err
	}
	body := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), body, nil
}

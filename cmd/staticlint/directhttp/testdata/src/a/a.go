package a

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

func bad() {
	_, _ = http.Get("http://localhost:9200/")                    // want `http.Get uses the default client`
	_, _ = http.Head("http://localhost:9200/")                   // want `http.Head uses the default client`
	_, _ = http.Post("http://localhost:9200/_bulk", "", nil)     // want `http.Post uses the default client`
	_, _ = http.PostForm("http://localhost:9200/", url.Values{}) // want `http.PostForm uses the default client`
	_, _ = http.DefaultClient.Do(nil)                            // want `http.DefaultClient has no timeout`
	get := http.Get                                              // want `http.Get uses the default client`
	_ = get
}

func good() {
	c := &http.Client{Timeout: time.Second}
	_, _ = c.Get("http://localhost:9200/")
	_, _ = c.Post("http://localhost:9200/_bulk", "application/x-ndjson", strings.NewReader(""))
	req, _ := http.NewRequest(http.MethodGet, "http://localhost:9200/", nil)
	_, _ = c.Do(req)
}

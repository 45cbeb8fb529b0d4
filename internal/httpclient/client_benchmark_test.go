package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func runBenchmarkDo(b *testing.B, payloadSize int) {
	payload := make([]byte, payloadSize)
	for i := range payload {
		payload[i] = 'a'
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	if err != nil {
		b.Fatal(err)
	}
	req := &HTTPRequest{URL: server.URL, Method: "GET"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := client.Do(req); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDo_Small(b *testing.B)  { runBenchmarkDo(b, 1024) }
func BenchmarkDo_Medium(b *testing.B) { runBenchmarkDo(b, 64*1024) }
func BenchmarkDo_Large(b *testing.B)  { runBenchmarkDo(b, 1024*1024) }

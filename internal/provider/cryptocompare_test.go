package provider

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestCryptoCompareFetchHeadlines(t *testing.T) {
	client, _ := stubClient(t, func(req *http.Request) (int, string) {
		if req.URL.Path != "/data/v2/news/" || req.URL.Query().Get("lang") != "EN" {
			t.Fatalf("unexpected request: %s", req.URL.String())
		}
		return http.StatusOK, `{"Type":100,"Data":[
			{"id":"1","title":"Bitcoin hashrate hits record","url":"https://n.example/1","source":"coindesk","published_on":1771009800,"imageurl":"https://img.example/1.png","source_info":{"name":"CoinDesk"}},
			{"id":"2","title":"   ","url":"https://n.example/2","source":"x","published_on":1771009700},
			{"id":"3","title":"ETF inflows continue","url":"https://n.example/3","source":"theblock","published_on":1771009600},
			{"id":"4","title":"Over the limit","url":"https://n.example/4","source":"x","published_on":1771009500}]}`
	})
	p := NewCryptoCompareProvider(client, testTracer(), "http://example")

	items, err := p.FetchHeadlines(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 headlines, got %d", len(items))
	}
	if items[0].Source != "CoinDesk" || items[0].ImageURL == "" {
		t.Fatalf("expected source_info name preferred, got %+v", items[0])
	}
	if items[1].Source != "theblock" || items[1].ID != "3" {
		t.Fatalf("expected blank title skipped, got %+v", items[1])
	}
	if !items[0].PublishedAt.Equal(time.Unix(1771009800, 0)) {
		t.Fatalf("unexpected published time: %v", items[0].PublishedAt)
	}
}

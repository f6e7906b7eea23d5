package ctxutil

import (
	"context"
	"testing"
)

func TestRequestDataRoundTrip(t *testing.T) {
	ctx := WithRequestData(context.Background(), &RequestData{StudentID: "GV0002"})
	if got := StudentID(ctx); got != "GV0002" {
		t.Fatalf("unexpected student id: %q", got)
	}
	if got := StudentID(context.Background()); got != "" {
		t.Fatalf("expected empty student id, got %q", got)
	}
}

func TestTraceDataMissing(t *testing.T) {
	if td := GetTraceData(context.Background()); td != nil {
		t.Fatalf("expected nil trace data, got %+v", td)
	}
}

package requestctx

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}

func TestCredentials(t *testing.T) {
	assert.True(t, CredentialsFrom(context.Background()).Empty())

	ctx := WithCredentials(context.Background(), Credentials{Cookie: "a=b"})
	creds := CredentialsFrom(ctx)
	assert.False(t, creds.Empty())
	assert.Equal(t, "a=b", creds.Cookie)
}

func TestCookieSink(t *testing.T) {
	sink := &CookieSink{}
	ctx := WithCookieSink(context.Background(), sink)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Sink(ctx).Add("session=x")
		}()
	}
	wg.Wait()

	assert.Len(t, sink.Drain(), 10)
	assert.Empty(t, sink.Drain())

	var nilSink *CookieSink
	nilSink.Add("ignored")
	assert.Nil(t, nilSink.Drain())
	assert.Nil(t, Sink(context.Background()))
}

package notify

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/dwikikusuma/buensabor-storefront/internal/checkout/domain"
	"github.com/dwikikusuma/buensabor-storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInboxDrain(t *testing.T) {
	b := NewInbox(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		b.Notify(ctx, domain.Notification{SessionID: "s1", Message: fmt.Sprint(i)})
	}
	b.Notify(ctx, domain.Notification{SessionID: "s2", Message: "other"})

	got := b.Drain("s1")
	require.Len(t, got, 3)
	assert.Equal(t, "2", got[0].Message)
	assert.Equal(t, "4", got[2].Message)
	assert.Empty(t, b.Drain("s1"))
	assert.Len(t, b.Drain("s2"), 1)
}

func TestFanoutAndLog(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Service: "test", Env: "prod", Level: "debug", Output: &buf})
	inbox := NewInbox(0)

	Fanout{NewLog(log), inbox}.Notify(context.Background(), domain.Notification{
		SessionID: "s1", Kind: domain.OutcomeRejected, Message: "sin stock",
	})

	assert.Len(t, inbox.Drain("s1"), 1)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), "sin stock")
}

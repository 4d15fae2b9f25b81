package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags, out := log.Flags(), log.Writer()
	log.SetFlags(0)
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetFlags(flags)
		log.SetOutput(out)
	})
	return &buf
}

func TestTimeLogsPlanAndError(t *testing.T) {
	buf := captureLog(t)
	ctx := WithPlanID(context.Background(), "p-1")

	var err error
	Time(ctx, "solve")(&err)
	assert.Contains(t, buf.String(), "plan_id=p-1 op=solve dur=")
	assert.NotContains(t, buf.String(), "err=")

	buf.Reset()
	err = errors.New("boom")
	Time(context.Background(), "save")(&err)
	assert.Contains(t, buf.String(), "plan_id= op=save")
	assert.Contains(t, buf.String(), "err=boom")
}

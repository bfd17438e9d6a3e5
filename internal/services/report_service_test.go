package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportService_GenerateAgentSummaryPDF(t *testing.T) {
	env := newTestEnv(t)
	sarah := testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")
	inspection := testutil.CreateInspection(t, env.db, sarah.ID, "123 Oak Street, Springfield, a very long address that needs clipping")
	testutil.CreateDocument(t, env.db, sarah.ID, &inspection.ID, "Inspection Report")
	env.svc.Report.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	buf, filename, err := env.svc.Report.GenerateAgentSummaryPDF(context.Background(), testutil.AgentSession(sarah), sarah.ID)
	require.NoError(t, err)
	assert.Equal(t, "agent_summary_"+sarah.ID+"_2026-03-01.pdf", filename)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestReportService_GenerateAgentSummaryPDF_Access(t *testing.T) {
	env := newTestEnv(t)
	sarah := testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")
	michael := testutil.CreateAgent(t, env.db, "Michael Chen", "michael@example.com")

	_, _, err := env.svc.Report.GenerateAgentSummaryPDF(context.Background(), testutil.AgentSession(sarah), michael.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, _, err = env.svc.Report.GenerateAgentSummaryPDF(context.Background(), testutil.Admin(), "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcdefg...", clip("abcdefghijklmnop", 10))
}

package codec

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/smolrome/DailyTimeRecord/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func local(h, m, s, ns int) time.Time {
	return time.Date(2025, 3, 10, h, m, s, ns, time.Local)
}

func sampleStore(t *testing.T) *domain.Store {
	t.Helper()
	s := domain.NewStore()
	require.NoError(t, s.AppendWork(local(8, 0, 0, 0), domain.TimePtr(local(8, 45, 0, 0)), "Training"))
	require.NoError(t, s.AppendWork(local(9, 0, 0, 123456789), nil, "Project A"))
	require.NoError(t, s.AppendBreak(local(12, 0, 0, 0), domain.TimePtr(local(12, 30, 0, 0)), "Lunch"))
	require.NoError(t, s.AppendBreak(local(15, 0, 1, 500000), nil, "Short Break"))
	return s
}

func TestRoundTrip(t *testing.T) {
	s := sampleStore(t)
	data, err := Encode(s, "standup at 10")
	require.NoError(t, err)

	got, notes, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "standup at 10", notes)
	if diff := cmp.Diff(s.Records(), got.Records()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip_Empty(t *testing.T) {
	data, err := Encode(domain.NewStore(), "")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"work_sessions": []`)

	got, notes, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.Empty(t, got.Records())
}

func TestEncode_Shape(t *testing.T) {
	data, err := Encode(sampleStore(t), "")
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"start": "2025-03-10T08:00:00"`)
	assert.Contains(t, out, `"start": "2025-03-10T09:00:00.123456789"`)
	assert.Contains(t, out, `"end": null`)
	assert.Contains(t, out, `"task": "Training"`)
	assert.Contains(t, out, `"type": "Short Break"`)
}

func TestDecode_LegacyDocument(t *testing.T) {
	doc := `{
    "work_sessions": [
        {"start": "2024-11-04T08:58:12.481203", "end": "2024-11-04T17:02:40.100000", "task": "General Work"},
        {"start": "2024-11-05T09:00:00", "end": null, "task": "Meeting"}
    ],
    "break_sessions": [
        {"start": "2024-11-04T12:00:00", "end": "2024-11-04T12:45:00", "type": "Lunch"}
    ],
    "notes": "old notes\n"
}`
	s, notes, err := Decode([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "old notes\n", notes)
	assert.Equal(t, 2, s.Len(domain.KindWork))

	w, open := s.OpenWork()
	require.True(t, open, "open record on an earlier day loads as-is")
	assert.Equal(t, "Meeting", w.Label)
	assert.Equal(t, 2024, w.Start.Year())
}

func TestDecode_MissingLabelsDefault(t *testing.T) {
	doc := `{"work_sessions":[{"start":"2025-01-02T09:00:00","end":null}],
	         "break_sessions":[{"start":"2025-01-02T10:00:00","end":null}]}`
	s, _, err := Decode([]byte(doc))
	require.NoError(t, err)
	w, _ := s.OpenWork()
	b, _ := s.OpenBreak()
	assert.Equal(t, domain.DefaultTask, w.Label)
	assert.Equal(t, domain.DefaultBreakType, b.Label)
}

func TestDecode_NullStartRowsDropped(t *testing.T) {
	doc := `{"work_sessions":[
	           {"start":null,"end":null,"task":"ghost"},
	           {"start":"2025-01-02T09:00:00","end":"2025-01-02T17:00:00","task":"Project A"}],
	         "break_sessions":[
	           {"start":"2025-01-02T12:00:00","end":"2025-01-02T12:30:00","type":"Lunch"},
	           {"start":null,"end":"2025-01-02T15:00:00","type":"Short Break"}],
	         "notes":"kept"}`

	s, notes, dropped, err := DecodeReport([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"work_sessions[0]", "break_sessions[1]"}, dropped)
	assert.Equal(t, "kept", notes)
	require.Equal(t, 1, s.Len(domain.KindWork))
	require.Equal(t, 1, s.Len(domain.KindBreak))
	w, err := s.At(domain.KindWork, 0)
	require.NoError(t, err)
	assert.Equal(t, "Project A", w.Label)

	_, _, err = Decode([]byte(doc))
	require.NoError(t, err)
}

func TestDecode_FormatErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"not json", `{"work_sessions": [`},
		{"bad timestamp", `{"work_sessions":[{"start":"yesterday","end":null,"task":"x"}]}`},
		{"end before start", `{"work_sessions":[{"start":"2025-01-02T09:00:00","end":"2025-01-02T08:00:00","task":"x"}]}`},
		{"two open works", `{"work_sessions":[{"start":"2025-01-02T09:00:00","end":null},{"start":"2025-01-02T10:00:00","end":null}]}`},
		{"orphan open break", `{"break_sessions":[{"start":"2025-01-02T10:00:00","end":null}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Decode([]byte(tc.doc))
			require.ErrorIs(t, err, domain.ErrPersistenceFormat)
		})
	}
}

package migrate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schematic-io/schematic/schema"
)

const testFingerprint = "deadbeefcafe0123456789abcdef0123456789abcdef0123456789abcdef0123"

func TestGateStateMachine(t *testing.T) {
	g := NewGate(testFingerprint)
	assert.Equal(t, StateUnplanned, g.State)

	g.MarkPlanned()
	assert.Equal(t, StatePlanned, g.State)

	// MarkPlanned never regresses a later state.
	g.State = StateApplied
	g.MarkPlanned()
	assert.Equal(t, StateApplied, g.State)
}

func TestAuthorize(t *testing.T) {
	ack := schema.AckPrefix(testFingerprint)

	tests := []struct {
		name      string
		opts      Options
		local     bool
		hadTables bool
		wantErr   error
	}{
		{
			name:    "missing ack refused",
			opts:    Options{ApplyRequested: true},
			local:   true,
			wantErr: ErrAckRequired,
		},
		{
			name:    "wrong ack refused",
			opts:    Options{ApplyRequested: true, AckToken: "000000000000"},
			local:   true,
			wantErr: ErrAckMismatch,
		},
		{
			name:    "full fingerprint is not the token",
			opts:    Options{ApplyRequested: true, AckToken: testFingerprint},
			local:   true,
			wantErr: ErrAckMismatch,
		},
		{
			name:    "remote without override refused",
			opts:    Options{ApplyRequested: true, AckToken: ack},
			local:   false,
			wantErr: ErrRemoteUnconfirmed,
		},
		{
			name:      "non-empty without override refused",
			opts:      Options{ApplyRequested: true, AckToken: ack},
			local:     true,
			hadTables: true,
			wantErr:   ErrNonEmptyUnconfirmed,
		},
		{
			name:  "local empty database with ack passes",
			opts:  Options{ApplyRequested: true, AckToken: ack},
			local: true,
		},
		{
			name:      "all overrides pass",
			opts:      Options{ApplyRequested: true, AckToken: ack, AllowRemote: true, AllowNonEmpty: true},
			local:     false,
			hadTables: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate(testFingerprint)
			g.MarkPlanned()
			err := g.Authorize(tt.opts, tt.local, tt.hadTables)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.NotEqual(t, StateApplied, g.State)
			} else {
				require.NoError(t, err)
				assert.Equal(t, StateApplied, g.State)
			}
		})
	}
}

// The ack check comes first: an operator must not learn about other refusals
// before the token matches the reviewed model.
func TestAuthorizeAckCheckedFirst(t *testing.T) {
	g := NewGate(testFingerprint)
	err := g.Authorize(Options{ApplyRequested: true}, false, true)
	assert.ErrorIs(t, err, ErrAckRequired)
}

func TestIsRefusal(t *testing.T) {
	assert.True(t, IsRefusal(ErrAckRequired))
	assert.True(t, IsRefusal(errors.Join(ErrAckMismatch)))
	assert.True(t, IsRefusal(ErrRemoteUnconfirmed))
	assert.True(t, IsRefusal(ErrNonEmptyUnconfirmed))
	assert.False(t, IsRefusal(ErrNotConverged))
	assert.False(t, IsRefusal(errors.New("boom")))
	assert.False(t, IsRefusal(nil))
}

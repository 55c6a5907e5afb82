package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/approver/internal/model"
)

func TestParse(t *testing.T) {
	t.Parallel()

	selected := &model.Account{UserID: "erin", ServiceName: "Acme"}
	info := []model.DetailItem{{Label: "Device", Value: "Laptop"}}
	encoded, err := EncodeInfo(info)
	require.NoError(t, err)

	tests := []struct {
		name    string
		raw     string
		want    model.AuthRequest
		wantErr error
	}{
		{
			name: "online code",
			raw:  "approver://online?token=ABC123&user=alice",
			want: model.OnlineCode{SessionToken: "ABC123", UserID: "alice", RawCode: "approver://online?token=ABC123&user=alice"},
		},
		{
			name: "usernameless code carries selected account",
			raw:  "approver://usernameless?token=T1",
			want: model.UsernamelessCode{SessionToken: "T1", RawCode: "approver://usernameless?token=T1", Account: selected},
		},
		{
			name: "https link",
			raw:  "https://login.acme.test/approve?token=T2",
			want: model.UsernamelessLink{SessionToken: "T2", URI: "https://login.acme.test/approve?token=T2", Account: selected},
		},
		{
			name: "offline code without info",
			raw:  "approver://offline?user=carol",
			want: model.OfflineCode{RawCode: "approver://offline?user=carol", UserID: "carol"},
		},
		{
			name: "offline code with info",
			raw:  "approver://offline?user=carol&info=" + encoded,
			want: model.OfflineCode{RawCode: "approver://offline?user=carol&info=" + encoded, UserID: "carol", InlineExtraInfo: info},
		},
		{
			name: "surrounding whitespace is ignored",
			raw:  "  approver://usernameless?token=T3\n",
			want: model.UsernamelessCode{SessionToken: "T3", RawCode: "approver://usernameless?token=T3", Account: selected},
		},
		{name: "blank", raw: "   ", wantErr: model.ErrEmptyCode},
		{name: "online without user", raw: "approver://online?token=A", wantErr: model.ErrUnrecognizedCode},
		{name: "usernameless without token", raw: "approver://usernameless", wantErr: model.ErrUnrecognizedCode},
		{name: "link without token", raw: "https://acme.test/approve", wantErr: model.ErrUnrecognizedCode},
		{name: "offline with broken info", raw: "approver://offline?user=c&info=bm90anNvbg", wantErr: model.ErrUnrecognizedCode},
		{name: "unknown host", raw: "approver://other?token=A", wantErr: model.ErrUnrecognizedCode},
		{name: "unknown scheme", raw: "otpauth://totp/x", wantErr: model.ErrUnrecognizedCode},
		{name: "plain text", raw: "hello", wantErr: model.ErrUnrecognizedCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.raw, selected)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galacticworkshop/steam-depot-uploader/internal/uploader/entity"
	"github.com/galacticworkshop/steam-depot-uploader/pkg/systemutil"
)

func TestAccountUsecase_RequestAuthCode(t *testing.T) {
	tests := []struct {
		name  string
		lines []systemutil.Line
		want  entity.AuthCodeOutcome
	}{
		{
			name:  "email",
			lines: stdout("Logging in user 'bob' to Steam Public...", "This computer has not been authenticated for your account using Steam Guard.", "Steam Guard code:"),
			want:  entity.AuthCodeEmailSent,
		},
		{
			name:  "mobile app",
			lines: stdout("Logging in user 'bob' to Steam Public...", "Two-factor code:"),
			want:  entity.AuthCodeAppSent,
		},
		{
			name:  "marker on stderr",
			lines: []systemutil.Line{{Text: "Logged in OK"}, {Text: "Steam Guard code:", Stderr: true}},
			want:  entity.AuthCodeEmailSent,
		},
		{
			name:  "no marker",
			lines: stdout("Logged in OK", "Waiting for user info...Done"),
			want:  entity.AuthCodeUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{stream: &fakeStream{lines: tt.lines, exitCode: 5}}
			account := NewAccountUsecase(newMemStore(KeyUsername, "bob", KeyPassword, "secret"), runner)

			got, err := account.RequestAuthCode(context.Background(), "/opt/steamcmd/steamcmd.sh")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			require.Len(t, runner.calls, 1)
			assert.Equal(t, "/opt/steamcmd/steamcmd.sh", runner.calls[0].executable)
			assert.Equal(t, "/opt/steamcmd", runner.calls[0].workDir)
			assert.Equal(t, []string{"+login", "bob", "secret", "+quit"}, runner.calls[0].args)
			assert.False(t, account.IsRequestingAuthCode())
		})
	}
}

func TestAccountUsecase_RequestAuthCodeCredentialsMissing(t *testing.T) {
	for _, kv := range [][]string{
		{KeyUsername, "bob"},
		{KeyPassword, "secret"},
		{},
	} {
		runner := &fakeRunner{}
		account := NewAccountUsecase(newMemStore(kv...), runner)

		outcome, err := account.RequestAuthCode(context.Background(), "steamcmd")
		assert.ErrorIs(t, err, ErrCredentialsMissing)
		assert.Equal(t, entity.AuthCodeUnknown, outcome)
		assert.Empty(t, runner.calls)
	}
}

func TestAccountUsecase_RequestAuthCodeBusy(t *testing.T) {
	runner := &fakeRunner{}
	account := NewAccountUsecase(newMemStore(KeyUsername, "bob", KeyPassword, "secret"), runner)
	account.requesting.Store(true)

	_, err := account.RequestAuthCode(context.Background(), "steamcmd")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Empty(t, runner.calls)
}

func TestAccountUsecase_RequestAuthCodeLaunchFailure(t *testing.T) {
	runner := &fakeRunner{startErr: errors.New("no such file")}
	account := NewAccountUsecase(newMemStore(KeyUsername, "bob", KeyPassword, "secret"), runner)

	_, err := account.RequestAuthCode(context.Background(), "steamcmd")
	assert.ErrorIs(t, err, ErrSubprocessLaunchFailed)
	assert.False(t, account.IsRequestingAuthCode())
}

func TestAccountUsecase_SettingsRoundTrip(t *testing.T) {
	store := newMemStore()
	account := NewAccountUsecase(store, &fakeRunner{})
	assert.False(t, account.Credentials.CredentialsSet())

	account.Credentials = entity.AccountCredentials{Username: "bob", Password: "secret"}
	require.NoError(t, account.SaveSettings())
	require.NoError(t, account.SetAuthCode("XYZ12"))

	reloaded := NewAccountUsecase(store, &fakeRunner{})
	assert.Equal(t, entity.AccountCredentials{Username: "bob", Password: "secret", AuthCode: "XYZ12"}, reloaded.Credentials)

	require.NoError(t, reloaded.Clear())
	assert.Equal(t, "", store.values[KeyUsername])
	assert.Equal(t, "", store.values[KeyAuthCode])
}

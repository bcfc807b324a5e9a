package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpCreatesPendingStudent(t *testing.T) {
	f := newFixture(t, AppointmentOptions{})
	ctx := context.Background()

	student, err := f.auth.SignUp(ctx, SignUpInput{Email: " Ann@X.com ", Password: "secret1", Name: "Ann"})
	require.NoError(t, err)

	assert.False(t, student.Approved)
	assert.Equal(t, "ann@x.com", student.Email)

	account, err := f.store.Accounts().GetByUID(ctx, student.UID)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, model.RoleStudent, account.Role)

	pending, err := f.approval.ListPendingStudents(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, student.ID, pending[0].ID)
}

func TestSignUpRequiresAllFields(t *testing.T) {
	inputs := []SignUpInput{
		{Email: "", Password: "secret1", Name: "Ann"},
		{Email: "ann@x.com", Password: "", Name: "Ann"},
		{Email: "ann@x.com", Password: "secret1", Name: "   "},
	}

	for _, in := range inputs {
		f := newFixture(t, AppointmentOptions{})
		ctx := context.Background()

		_, err := f.auth.SignUp(ctx, in)
		assert.True(t, IsValidationError(err))
		assert.Equal(t, 1, f.warnCount())

		pending, err := f.approval.ListPendingStudents(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	f := newFixture(t, AppointmentOptions{})
	ctx := context.Background()

	_, err := f.auth.SignUp(ctx, SignUpInput{Email: "ann@x.com", Password: "secret1", Name: "Ann"})
	require.NoError(t, err)

	_, err = f.auth.SignUp(ctx, SignUpInput{Email: "ANN@x.com", Password: "secret2", Name: "Ann 2"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	pending, err := f.approval.ListPendingStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestSignInVerifiesRole(t *testing.T) {
	f := newFixture(t, AppointmentOptions{})
	ctx := context.Background()

	_, err := f.auth.CreateAccount(ctx, NewAccountInput{Email: "t@x.com", Password: "secret1", Role: "teacher"})
	require.NoError(t, err)

	_, err = f.auth.SignIn(ctx, SignInInput{Email: "t@x.com", Password: "secret1", Role: "admin"})
	assert.ErrorIs(t, err, ErrForbidden)

	session, err := f.auth.SignIn(ctx, SignInInput{Email: "T@x.com", Password: "secret1", Role: "teacher"})
	require.NoError(t, err)
	assert.Equal(t, "teacher.html", session.Redirect)
	assert.Equal(t, model.RoleTeacher, session.Identity.Role)
	assert.NotEmpty(t, session.Token)
}

func TestSignInRejectsBadPassword(t *testing.T) {
	f := newFixture(t, AppointmentOptions{})
	ctx := context.Background()

	_, err := f.auth.SignUp(ctx, SignUpInput{Email: "ann@x.com", Password: "secret1", Name: "Ann"})
	require.NoError(t, err)

	_, err = f.auth.SignIn(ctx, SignInInput{Email: "ann@x.com", Password: "wrong-pass", Role: "student"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.SignIn(ctx, SignInInput{Email: "nobody@x.com", Password: "secret1", Role: "student"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInRequiresAllFields(t *testing.T) {
	f := newFixture(t, AppointmentOptions{})

	_, err := f.auth.SignIn(context.Background(), SignInInput{Email: "ann@x.com", Password: "secret1"})
	assert.True(t, IsValidationError(err))
	assert.Equal(t, 1, f.warnCount())
}

func TestSessionAndSignOut(t *testing.T) {
	f := newFixture(t, AppointmentOptions{})
	ctx := context.Background()

	student, err := f.auth.SignUp(ctx, SignUpInput{Email: "ann@x.com", Password: "secret1", Name: "Ann"})
	require.NoError(t, err)

	session, err := f.auth.SignIn(ctx, SignInInput{Email: "ann@x.com", Password: "secret1", Role: "student"})
	require.NoError(t, err)
	assert.Equal(t, "dashboard.html", session.Redirect)

	identity, err := f.auth.Session(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, student.UID, identity.UID)
	assert.Equal(t, model.RoleStudent, identity.Role)

	require.NoError(t, f.auth.SignOut(ctx, session.Token))

	_, err = f.auth.Session(ctx, session.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionRejectsGarbage(t *testing.T) {
	f := newFixture(t, AppointmentOptions{})

	_, err := f.auth.Session(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLinkTelegram(t *testing.T) {
	f := newFixture(t, AppointmentOptions{})
	ctx := context.Background()

	account, err := f.auth.CreateAccount(ctx, NewAccountInput{Email: "t@x.com", Password: "secret1", Role: "teacher"})
	require.NoError(t, err)
	other, err := f.auth.CreateAccount(ctx, NewAccountInput{Email: "o@x.com", Password: "secret1", Role: "teacher"})
	require.NoError(t, err)

	code, err := f.auth.IssueTelegramLinkCode(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, code, 8)

	// регистр и пробелы вокруг кода не важны
	require.NoError(t, f.auth.LinkTelegram(ctx, account.Identity(), TelegramLinkInput{Code: " " + strings.ToLower(code) + " "}))

	found, err := f.auth.AccountByTelegramChat(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, account.UID, found.UID)

	// код одноразовый
	err = f.auth.LinkTelegram(ctx, other.Identity(), TelegramLinkInput{Code: code})
	assert.True(t, IsValidationError(err))

	code, err = f.auth.IssueTelegramLinkCode(ctx, 42)
	require.NoError(t, err)
	err = f.auth.LinkTelegram(ctx, other.Identity(), TelegramLinkInput{Code: code})
	assert.True(t, IsValidationError(err))

	_, err = f.auth.AccountByTelegramChat(ctx, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLinkTelegramRequiresIssuedCode(t *testing.T) {
	f := newFixture(t, AppointmentOptions{})
	ctx := context.Background()

	account, err := f.auth.CreateAccount(ctx, NewAccountInput{Email: "t@x.com", Password: "secret1", Role: "teacher"})
	require.NoError(t, err)

	warns := f.warnCount()
	err = f.auth.LinkTelegram(ctx, account.Identity(), TelegramLinkInput{Code: ""})
	assert.True(t, IsValidationError(err))
	err = f.auth.LinkTelegram(ctx, account.Identity(), TelegramLinkInput{Code: "DEADBEEF"})
	assert.True(t, IsValidationError(err))
	assert.Equal(t, warns+2, f.warnCount())

	// новый код заменяет прежний
	first, err := f.auth.IssueTelegramLinkCode(ctx, 42)
	require.NoError(t, err)
	second, err := f.auth.IssueTelegramLinkCode(ctx, 42)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
	err = f.auth.LinkTelegram(ctx, account.Identity(), TelegramLinkInput{Code: first})
	assert.True(t, IsValidationError(err))

	// просроченный код не принимается
	issuedAt := time.Now()
	f.auth.now = func() time.Time { return issuedAt.Add(TelegramLinkCodeTTL + time.Minute) }
	err = f.auth.LinkTelegram(ctx, account.Identity(), TelegramLinkInput{Code: second})
	assert.True(t, IsValidationError(err))

	account, err = f.store.Accounts().GetByUID(ctx, account.UID)
	require.NoError(t, err)
	assert.Nil(t, account.TelegramChatID)
}

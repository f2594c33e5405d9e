package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	domainuser "stayfinder/internal/domain/user"
	"stayfinder/internal/infra/storage/memory"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }
func (plainHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type staticTokens struct{ n int }

func (t *staticTokens) NewToken() (string, error) {
	t.n++
	return "token-" + string(rune('a'+t.n-1)), nil
}

type staticCodes struct{ code string }

func (c staticCodes) NewCode() (string, error) { return c.code, nil }

type recordingMailer struct {
	to    string
	codes []string
}

func (m *recordingMailer) SendLoginCode(_ context.Context, toEmail, _ string, code string) error {
	m.to = toEmail
	m.codes = append(m.codes, code)
	return nil
}

func newService(t *testing.T) (*Service, *recordingMailer) {
	t.Helper()
	mailer := &recordingMailer{}
	svc := &Service{
		Users:     memory.NewUserRepository(),
		Sessions:  memory.NewSessionStore(),
		Passwords: plainHasher{},
		Tokens:    &staticTokens{},
		Codes:     staticCodes{code: "123456"},
		Mailer:    mailer,
		OTPTTL:    5 * time.Minute,
	}
	return svc, mailer
}

func register(t *testing.T, svc *Service) *domainuser.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterParams{
		Email:     "Traveller@Example.com",
		FirstName: "Grace",
		LastName:  "Hopper",
		Password:  "secret-1",
		Role:      domainuser.RoleUser,
	})
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestRegisterNormalizesAndRejectsDuplicates(t *testing.T) {
	svc, _ := newService(t)
	u := register(t, svc)
	if u.Email != "traveller@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	_, err := svc.Register(context.Background(), RegisterParams{
		Email: "traveller@example.com", FirstName: "G", LastName: "H", Password: "secret-1",
	})
	if !errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
		t.Fatalf("want ErrEmailAlreadyUsed, got %v", err)
	}
}

func TestLoginIssuesOTPAndVerifyIssuesSession(t *testing.T) {
	svc, mailer := newService(t)
	register(t, svc)
	ctx := context.Background()

	if err := svc.Login(ctx, "traveller@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password: want ErrInvalidCredentials, got %v", err)
	}
	if err := svc.Login(ctx, "traveller@example.com", "secret-1"); err != nil {
		t.Fatal(err)
	}
	if mailer.to != "traveller@example.com" || len(mailer.codes) != 1 {
		t.Fatalf("OTP mail not sent: %+v", mailer)
	}

	if _, err := svc.VerifyOTP(ctx, "traveller@example.com", "999999"); !errors.Is(err, ErrOTPInvalid) {
		t.Fatalf("wrong code: want ErrOTPInvalid, got %v", err)
	}
	result, err := svc.VerifyOTP(ctx, "traveller@example.com", "123456")
	if err != nil {
		t.Fatal(err)
	}
	if result.Token == "" {
		t.Fatal("expected session token")
	}

	resolved, err := svc.ResolveToken(ctx, result.Token)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.User.Email != "traveller@example.com" {
		t.Fatalf("resolved wrong user: %+v", resolved.User)
	}

	// The code is single use.
	if _, err := svc.VerifyOTP(ctx, "traveller@example.com", "123456"); !errors.Is(err, ErrOTPNotRequested) {
		t.Fatalf("replayed code: want ErrOTPNotRequested, got %v", err)
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	svc, _ := newService(t)
	svc.OTPTTL = time.Nanosecond // expires before it can be verified
	register(t, svc)
	ctx := context.Background()

	if err := svc.Login(ctx, "traveller@example.com", "secret-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.VerifyOTP(ctx, "traveller@example.com", "123456"); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("want ErrOTPExpired, got %v", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc)
	ctx := context.Background()
	if err := svc.Login(ctx, "traveller@example.com", "secret-1"); err != nil {
		t.Fatal(err)
	}
	result, err := svc.VerifyOTP(ctx, "traveller@example.com", "123456")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(ctx, result.Token); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ResolveToken(ctx, result.Token); err == nil {
		t.Fatal("token should no longer resolve")
	}
}

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/save-n-serve/internal/mailer"
	"github.com/iliyamo/save-n-serve/internal/model"
)

// fakeStore is an in-memory AccountStore. Reads hand out copies so the
// service cannot mutate stored state without going through a writer method,
// mirroring how a real store behaves.
type fakeStore struct {
	accounts map[int64]*Account
	resets   map[string]int64 // reset token -> account id
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: map[int64]*Account{}, resets: map[string]int64{}}
}

func (f *fakeStore) add(a Account) {
	f.accounts[a.ID] = &a
}

func (f *fakeStore) FindByIdentifier(_ context.Context, identifier string) (*Account, error) {
	for _, a := range f.accounts {
		if a.Identifier == identifier {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (*Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	a, ok := f.accounts[id]
	if !ok {
		return ErrNotFound
	}
	a.PasswordHash = hash
	return nil
}

func (f *fakeStore) SetResetToken(_ context.Context, id int64, token string) error {
	if _, ok := f.accounts[id]; !ok {
		return ErrNotFound
	}
	for tok, owner := range f.resets {
		if owner == id {
			delete(f.resets, tok) // only the most recent token is valid
		}
	}
	f.resets[token] = id
	return nil
}

func (f *fakeStore) ResetPasswordByToken(_ context.Context, token, hash string) error {
	id, ok := f.resets[token]
	if !ok {
		return ErrInvalidToken
	}
	f.accounts[id].PasswordHash = hash
	delete(f.resets, token)
	return nil
}

// fakeMailer records outbound messages and can be told to fail.
type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTestService(spec RoleSpec) (*Service, *fakeStore, *fakeMailer, *TokenService) {
	store := newFakeStore()
	mail := &fakeMailer{}
	tokens := NewTokenService(testSecret, time.Hour)
	svc := NewService(spec, store, NewHasher(4), tokens, mail, "http://localhost:5173")
	return svc, store, mail, tokens
}

func buyerSpec() RoleSpec {
	return RoleSpec{Role: model.RoleBuyer, IncludeUserID: true, ResetPath: "/reset-password"}
}

func sellerSpec() RoleSpec {
	return RoleSpec{Role: model.RoleSeller, RequiresApproval: true, IncludeUserID: true, ResetPath: "/sreset-password"}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("registered credentials log in with matching role", func(t *testing.T) {
		svc, store, _, tokens := newTestService(buyerSpec())
		hash, err := svc.HashPassword("secret123")
		require.NoError(t, err)
		store.add(Account{ID: 1, Identifier: "a@x.com", Email: "a@x.com", PasswordHash: hash})

		sess, err := svc.Login(ctx, "a@x.com", "secret123")
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, int64(1), sess.Account.ID)

		claims, err := tokens.Decode(sess.Token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.Subject)
		assert.Equal(t, model.RoleBuyer, claims.Role)
		require.NotNil(t, claims.UserID)
		assert.Equal(t, int64(1), *claims.UserID)
	})

	t.Run("unknown identifier and wrong password are indistinguishable", func(t *testing.T) {
		svc, store, _, _ := newTestService(buyerSpec())
		hash, err := svc.HashPassword("secret123")
		require.NoError(t, err)
		store.add(Account{ID: 1, Identifier: "a@x.com", Email: "a@x.com", PasswordHash: hash})

		_, unknownErr := svc.Login(ctx, "nobody@x.com", "secret123")
		_, wrongErr := svc.Login(ctx, "a@x.com", "wrong")
		assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
		assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	})

	t.Run("legacy plaintext password migrates on first login", func(t *testing.T) {
		svc, store, _, _ := newTestService(buyerSpec())
		store.add(Account{ID: 1, Identifier: "a@x.com", Email: "a@x.com", PasswordHash: "secret123"})

		sess, err := svc.Login(ctx, "a@x.com", "secret123")
		require.NoError(t, err)
		require.NotNil(t, sess)

		stored := store.accounts[1].PasswordHash
		assert.NotEqual(t, "secret123", stored)
		assert.True(t, NewHasher(4).Verify(stored, "secret123"))

		// Second login goes through the hash path.
		_, err = svc.Login(ctx, "a@x.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, stored, store.accounts[1].PasswordHash)
	})

	t.Run("legacy migration never triggers on wrong password", func(t *testing.T) {
		svc, store, _, _ := newTestService(buyerSpec())
		store.add(Account{ID: 1, Identifier: "a@x.com", Email: "a@x.com", PasswordHash: "secret123"})

		_, err := svc.Login(ctx, "a@x.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, "secret123", store.accounts[1].PasswordHash)
	})

	t.Run("pending seller is rejected until approved", func(t *testing.T) {
		svc, store, _, _ := newTestService(sellerSpec())
		hash, err := svc.HashPassword("secret123")
		require.NoError(t, err)
		store.add(Account{ID: 7, Identifier: "shop", Email: "s@x.com", PasswordHash: hash, Status: model.StatusPending})

		_, err = svc.Login(ctx, "shop", "secret123")
		assert.ErrorIs(t, err, ErrNotApproved)

		store.accounts[7].Status = model.StatusApproved
		sess, err := svc.Login(ctx, "shop", "secret123")
		require.NoError(t, err)
		assert.Equal(t, int64(7), sess.Account.ID)
	})

	t.Run("rejected seller cannot authenticate", func(t *testing.T) {
		svc, store, _, _ := newTestService(sellerSpec())
		hash, err := svc.HashPassword("secret123")
		require.NoError(t, err)
		store.add(Account{ID: 7, Identifier: "shop", Email: "s@x.com", PasswordHash: hash, Status: model.StatusRejected})

		_, err = svc.Login(ctx, "shop", "secret123")
		assert.ErrorIs(t, err, ErrNotApproved)
	})

	t.Run("admin token carries no user id", func(t *testing.T) {
		svc, store, _, tokens := newTestService(RoleSpec{Role: model.RoleAdmin, ResetPath: "/areset-password"})
		hash, err := svc.HashPassword("secret123")
		require.NoError(t, err)
		store.add(Account{ID: 3, Identifier: "root", Email: "root@x.com", PasswordHash: hash})

		sess, err := svc.Login(ctx, "root", "secret123")
		require.NoError(t, err)

		claims, err := tokens.Decode(sess.Token)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, claims.Role)
		assert.Nil(t, claims.UserID)
	})
}

func TestService_RequestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("stores token and mails the reset link", func(t *testing.T) {
		svc, store, mail, _ := newTestService(buyerSpec())
		store.add(Account{ID: 1, Identifier: "a@x.com", Email: "a@x.com", PasswordHash: "x"})

		require.NoError(t, svc.RequestPasswordReset(ctx, "a@x.com"))

		require.Len(t, store.resets, 1)
		require.Len(t, mail.sent, 1)
		msg := mail.sent[0]
		assert.Equal(t, "a@x.com", msg.To)
		assert.Contains(t, msg.HTML, "http://localhost:5173/reset-password?token=")
		for token := range store.resets {
			assert.Contains(t, msg.HTML, token)
		}
	})

	t.Run("unknown email reports success without mail", func(t *testing.T) {
		svc, store, mail, _ := newTestService(buyerSpec())

		require.NoError(t, svc.RequestPasswordReset(ctx, "nobody@x.com"))
		assert.Empty(t, store.resets)
		assert.Empty(t, mail.sent)
	})

	t.Run("new request replaces the previous token", func(t *testing.T) {
		svc, store, mail, _ := newTestService(buyerSpec())
		store.add(Account{ID: 1, Identifier: "a@x.com", Email: "a@x.com", PasswordHash: "x"})

		require.NoError(t, svc.RequestPasswordReset(ctx, "a@x.com"))
		require.NoError(t, svc.RequestPasswordReset(ctx, "a@x.com"))

		assert.Len(t, store.resets, 1)
		assert.Len(t, mail.sent, 2)
	})

	t.Run("mail failure is reported but token survives", func(t *testing.T) {
		svc, store, mail, _ := newTestService(buyerSpec())
		store.add(Account{ID: 1, Identifier: "a@x.com", Email: "a@x.com", PasswordHash: "x"})
		mail.err = errors.New("smtp down")

		err := svc.RequestPasswordReset(ctx, "a@x.com")
		assert.ErrorIs(t, err, ErrMailDelivery)
		assert.Len(t, store.resets, 1)
	})

	t.Run("seller links point at the seller route", func(t *testing.T) {
		svc, store, mail, _ := newTestService(sellerSpec())
		store.add(Account{ID: 7, Identifier: "shop", Email: "s@x.com", PasswordHash: "x", Status: model.StatusApproved})

		require.NoError(t, svc.RequestPasswordReset(ctx, "s@x.com"))
		require.Len(t, mail.sent, 1)
		assert.Contains(t, mail.sent[0].HTML, "/sreset-password?token=")
	})
}

func TestService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("token is single use", func(t *testing.T) {
		svc, store, _, _ := newTestService(buyerSpec())
		store.add(Account{ID: 1, Identifier: "a@x.com", Email: "a@x.com", PasswordHash: "old"})
		require.NoError(t, svc.RequestPasswordReset(ctx, "a@x.com"))

		var token string
		for tok := range store.resets {
			token = tok
		}

		require.NoError(t, svc.ResetPassword(ctx, token, "newpass456"))
		assert.True(t, NewHasher(4).Verify(store.accounts[1].PasswordHash, "newpass456"))
		assert.Empty(t, store.resets)

		err := svc.ResetPassword(ctx, token, "again789")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown token fails", func(t *testing.T) {
		svc, _, _, _ := newTestService(buyerSpec())
		err := svc.ResetPassword(ctx, "no-such-token", "newpass456")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty inputs fail", func(t *testing.T) {
		svc, _, _, _ := newTestService(buyerSpec())
		assert.ErrorIs(t, svc.ResetPassword(ctx, "", "newpass456"), ErrInvalidToken)
		assert.ErrorIs(t, svc.ResetPassword(ctx, "tok", ""), ErrInvalidToken)
	})

	t.Run("login works with the new password afterwards", func(t *testing.T) {
		svc, store, _, _ := newTestService(buyerSpec())
		hash, err := svc.HashPassword("oldpass")
		require.NoError(t, err)
		store.add(Account{ID: 1, Identifier: "a@x.com", Email: "a@x.com", PasswordHash: hash})

		require.NoError(t, svc.RequestPasswordReset(ctx, "a@x.com"))
		var token string
		for tok := range store.resets {
			token = tok
		}
		require.NoError(t, svc.ResetPassword(ctx, token, "newpass456"))

		_, err = svc.Login(ctx, "a@x.com", "oldpass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		sess, err := svc.Login(ctx, "a@x.com", "newpass456")
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)
	})
}

package authn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToolkitServer(t *testing.T) (*IdentityToolkit, *[]map[string]interface{}) {
	t.Helper()
	var requests []map[string]interface{}

	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	decode := func(r *http.Request) map[string]interface{} {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		requests = append(requests, body)
		return body
	}

	mux.HandleFunc("/v1/accounts:signUp", func(w http.ResponseWriter, r *http.Request) {
		body := decode(r)
		if body["email"] == "taken@example.com" {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": map[string]interface{}{"message": "EMAIL_EXISTS"}})
			return
		}
		if body["password"] == "123" {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": map[string]interface{}{"message": "WEAK_PASSWORD : Password should be at least 6 characters"}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"localId": "uid-1", "email": body["email"], "idToken": "id-1", "refreshToken": "rt-1", "expiresIn": "3600",
		})
	})
	mux.HandleFunc("/v1/accounts:signInWithPassword", func(w http.ResponseWriter, r *http.Request) {
		body := decode(r)
		if body["password"] != "secret1" {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": map[string]interface{}{"message": "INVALID_LOGIN_CREDENTIALS"}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"localId": "uid-1", "email": body["email"], "displayName": "Ada", "idToken": "id-2", "refreshToken": "rt-2", "expiresIn": "3600",
		})
	})
	mux.HandleFunc("/v1/accounts:lookup", func(w http.ResponseWriter, r *http.Request) {
		body := decode(r)
		if body["idToken"] == "bad" {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": map[string]interface{}{"message": "INVALID_ID_TOKEN"}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"users": []map[string]interface{}{
			{"localId": "uid-1", "email": "ada@example.com", "displayName": "Ada", "photoUrl": "https://img/ada.png"},
		}})
	})
	mux.HandleFunc("/v1/accounts:update", func(w http.ResponseWriter, r *http.Request) {
		body := decode(r)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"localId": "uid-1", "email": "ada@example.com", "displayName": body["displayName"], "idToken": "id-3", "refreshToken": "rt-3", "expiresIn": "3600",
		})
	})
	mux.HandleFunc("/v1/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id_token": "id-4", "refresh_token": r.PostForm.Get("refresh_token"), "expires_in": "3600",
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewIdentityToolkit(IdentityToolkitConfig{
		APIKey:   "test-key",
		BaseURL:  srv.URL + "/v1",
		TokenURL: srv.URL + "/v1/token",
	}), &requests
}

func TestIdentityToolkitSignUp(t *testing.T) {
	tk, requests := newToolkitServer(t)

	cred, err := tk.SignUp(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", cred.Identity.UID)
	assert.Equal(t, "id-1", cred.IDToken)
	assert.Equal(t, "rt-1", cred.RefreshToken)
	assert.False(t, cred.ExpiresAt.IsZero())
	assert.Equal(t, true, (*requests)[0]["returnSecureToken"])
}

func TestIdentityToolkitErrorMapping(t *testing.T) {
	tk, _ := newToolkitServer(t)
	ctx := context.Background()

	_, err := tk.SignUp(ctx, "taken@example.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = tk.SignUp(ctx, "ada@example.com", "123")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = tk.SignIn(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = tk.Lookup(ctx, "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIdentityToolkitSignInLooksUpProfile(t *testing.T) {
	tk, _ := newToolkitServer(t)

	cred, err := tk.SignIn(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "id-2", cred.IDToken)
	assert.Equal(t, "https://img/ada.png", cred.Identity.PhotoURL)
}

func TestIdentityToolkitUpdateProfile(t *testing.T) {
	tk, requests := newToolkitServer(t)

	name := "Ada Lovelace"
	cred, err := tk.UpdateProfile(context.Background(), "id-1", Profile{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", cred.Identity.DisplayName)
	assert.Equal(t, "id-1", (*requests)[0]["idToken"])
	assert.NotContains(t, (*requests)[0], "photoUrl")
}

func TestIdentityToolkitRefresh(t *testing.T) {
	tk, _ := newToolkitServer(t)

	cred, err := tk.Refresh(context.Background(), "rt-9")
	require.NoError(t, err)
	assert.Equal(t, "id-4", cred.IDToken)
	assert.Equal(t, "rt-9", cred.RefreshToken)
	assert.Equal(t, "ada@example.com", cred.Identity.Email)
}

func TestMapErrorUnknown(t *testing.T) {
	err := mapError("QUOTA_EXCEEDED")
	assert.EqualError(t, err, "identity toolkit error: QUOTA_EXCEEDED")
}

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret, false)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, database
}

// newUser creates an account directly in the store and mints a token
// for it, bypassing the rate-limited auth endpoints.
func newUser(t *testing.T, database *sql.DB, name, email string, roles ...string) (*model.User, string) {
	t.Helper()
	if len(roles) == 0 {
		roles = []string{model.RoleUser}
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	user, err := store.CreateUser(context.Background(), database, name, email, string(hash), roles)
	if err != nil {
		t.Fatalf("creating user %s: %v", email, err)
	}
	token, err := auth.GenerateToken(testJWTSecret, user)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return user, token
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, resp.StatusCode)
	}
}

func wantCode(t *testing.T, resp *http.Response, status int, code string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("expected status %d, got %d", status, resp.StatusCode)
	}
	body := decodeBody[errorBody](t, resp)
	if body.Code != code {
		t.Errorf("expected code %s, got %s", code, body.Code)
	}
}

func createItem(t *testing.T, server *httptest.Server, token string, fields map[string]string) model.Item {
	t.Helper()
	resp := doJSON(t, "POST", server.URL+"/api/items", token, fields)
	wantStatus(t, resp, http.StatusCreated)
	return decodeBody[model.Item](t, resp)
}

func walletPayload() map[string]string {
	return map[string]string{
		"title":       "Wallet",
		"description": "Black leather wallet",
		"type":        model.ItemTypeLost,
		"tags":        "wallet,black",
		"location":    "Main St",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := doJSON(t, "POST", server.URL+"/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	})
	wantStatus(t, resp, http.StatusCreated)
	user := decodeBody[model.User](t, resp)
	if user.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}

	// Duplicate email.
	resp = doJSON(t, "POST", server.URL+"/api/auth/register", "", map[string]string{
		"name": "Other", "email": "Alice@Example.com", "password": "password123",
	})
	wantCode(t, resp, http.StatusConflict, apperr.CodeConflict)

	resp = doJSON(t, "POST", server.URL+"/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "password123",
	})
	wantStatus(t, resp, http.StatusOK)
	session := decodeBody[sessionResponse](t, resp)
	if session.Token == "" {
		t.Fatal("empty token from login")
	}
	if session.User == nil || session.User.Email != "alice@example.com" {
		t.Error("login response missing identity")
	}

	resp = doJSON(t, "POST", server.URL+"/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})
	wantCode(t, resp, http.StatusUnauthorized, apperr.CodeUnauthorized)
}

func TestAutoLoginDisabledOutsideDevMode(t *testing.T) {
	server, database := setupTestServer(t)
	user, _ := newUser(t, database, "Alice", "alice@example.com")

	resp := doJSON(t, "POST", server.URL+"/api/auth/auto-login", "", map[string]int64{"userId": user.ID})
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestItemLifecycleFlow(t *testing.T) {
	server, database := setupTestServer(t)
	_, aliceToken := newUser(t, database, "Alice", "alice@example.com")
	_, bobToken := newUser(t, database, "Bob", "bob@example.com")

	item := createItem(t, server, aliceToken, walletPayload())
	if item.Status != model.ItemStatusOpen {
		t.Fatalf("expected new item OPEN, got %s", item.Status)
	}
	if item.PostedBy == nil || item.PostedBy.Email != "alice@example.com" {
		t.Error("expected poster attached to item")
	}

	// Public read, no token.
	resp := doJSON(t, "GET", server.URL+"/api/items/"+itoa(item.ID), "", nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// Non-owner cannot edit.
	payload := walletPayload()
	payload["title"] = "Stolen wallet"
	resp = doJSON(t, "PUT", server.URL+"/api/items/"+itoa(item.ID), bobToken, payload)
	wantCode(t, resp, http.StatusForbidden, apperr.CodeForbidden)

	// Owner edit succeeds and does not touch status.
	payload["title"] = "Brown wallet"
	resp = doJSON(t, "PUT", server.URL+"/api/items/"+itoa(item.ID), aliceToken, payload)
	wantStatus(t, resp, http.StatusOK)
	updated := decodeBody[model.Item](t, resp)
	if updated.Title != "Brown wallet" {
		t.Errorf("expected updated title, got %q", updated.Title)
	}
	if updated.Status != model.ItemStatusOpen {
		t.Errorf("edit changed status to %s", updated.Status)
	}

	// Owner delete moves the item to REMOVED.
	resp = doJSON(t, "DELETE", server.URL+"/api/items/"+itoa(item.ID), aliceToken, nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// REMOVED is terminal.
	resp = doJSON(t, "PATCH", server.URL+"/api/items/"+itoa(item.ID)+"/status", aliceToken,
		map[string]string{"status": model.ItemStatusClaimed})
	wantCode(t, resp, http.StatusConflict, apperr.CodeIllegalTransition)
}

func TestItemValidationRejectsAllFieldsAtOnce(t *testing.T) {
	server, database := setupTestServer(t)
	_, token := newUser(t, database, "Alice", "alice@example.com")

	resp := doJSON(t, "POST", server.URL+"/api/items", token, map[string]string{
		"title": "ab", "description": "Black leather wallet", "type": "MISPLACED", "location": "",
	})
	wantStatus(t, resp, http.StatusBadRequest)
	body := decodeBody[errorBody](t, resp)
	if body.Code != apperr.CodeValidation {
		t.Fatalf("expected validation code, got %s", body.Code)
	}
	for _, field := range []string{"title", "type", "location"} {
		if _, ok := body.Fields[field]; !ok {
			t.Errorf("expected violation for field %q, got %v", field, body.Fields)
		}
	}
}

func TestUnauthenticatedWriteRejected(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := doJSON(t, "POST", server.URL+"/api/items", "", walletPayload())
	wantCode(t, resp, http.StatusUnauthorized, apperr.CodeUnauthorized)
}

func TestClaimArbitrationFlow(t *testing.T) {
	server, database := setupTestServer(t)
	_, aliceToken := newUser(t, database, "Alice", "alice@example.com")
	_, bobToken := newUser(t, database, "Bob", "bob@example.com")
	_, carolToken := newUser(t, database, "Carol", "carol@example.com")

	item := createItem(t, server, aliceToken, walletPayload())
	base := server.URL + "/api/items/" + itoa(item.ID) + "/claim-requests"

	// Poster cannot claim their own item.
	resp := doJSON(t, "POST", base, aliceToken, map[string]string{"message": "mine"})
	wantCode(t, resp, http.StatusConflict, apperr.CodeSelfClaim)

	resp = doJSON(t, "POST", base, bobToken, map[string]string{"message": "lost it on Main St"})
	wantStatus(t, resp, http.StatusCreated)
	bobClaim := decodeBody[model.ClaimRequest](t, resp)

	resp = doJSON(t, "POST", base, carolToken, map[string]string{"message": "I think it is mine"})
	wantStatus(t, resp, http.StatusCreated)
	carolClaim := decodeBody[model.ClaimRequest](t, resp)

	// Only the poster (or an admin) may read the claim list.
	resp = doJSON(t, "GET", base, bobToken, nil)
	wantCode(t, resp, http.StatusForbidden, apperr.CodeForbidden)

	resp = doJSON(t, "GET", base, aliceToken, nil)
	wantStatus(t, resp, http.StatusOK)
	page := decodeBody[model.Page[model.ClaimRequest]](t, resp)
	if page.TotalElements != 2 {
		t.Fatalf("expected 2 claim requests, got %d", page.TotalElements)
	}

	// Claimants cannot decide.
	resp = doJSON(t, "POST", base+"/"+itoa(bobClaim.ID)+"/approve", bobToken, nil)
	wantCode(t, resp, http.StatusForbidden, apperr.CodeForbidden)

	// Approving Bob flips both the request and the item atomically.
	resp = doJSON(t, "POST", base+"/"+itoa(bobClaim.ID)+"/approve", aliceToken, nil)
	wantStatus(t, resp, http.StatusOK)
	approved := decodeBody[model.ClaimRequest](t, resp)
	if approved.Status != model.ClaimStatusApproved {
		t.Errorf("expected APPROVED, got %s", approved.Status)
	}

	resp = doJSON(t, "GET", server.URL+"/api/items/"+itoa(item.ID), "", nil)
	wantStatus(t, resp, http.StatusOK)
	claimed := decodeBody[model.Item](t, resp)
	if claimed.Status != model.ItemStatusClaimed {
		t.Fatalf("expected item CLAIMED after approval, got %s", claimed.Status)
	}

	// The sibling request lost the race and cannot be approved.
	resp = doJSON(t, "POST", base+"/"+itoa(carolClaim.ID)+"/approve", aliceToken, nil)
	wantCode(t, resp, http.StatusConflict, apperr.CodeItemAlreadyClaimed)

	// But it is still PENDING and can be rejected.
	resp = doJSON(t, "POST", base+"/"+itoa(carolClaim.ID)+"/reject", aliceToken, nil)
	wantStatus(t, resp, http.StatusOK)
	rejected := decodeBody[model.ClaimRequest](t, resp)
	if rejected.Status != model.ClaimStatusRejected {
		t.Errorf("expected REJECTED, got %s", rejected.Status)
	}

	// No new claims on a claimed item.
	resp = doJSON(t, "POST", base, carolToken, map[string]string{"message": "second try"})
	wantCode(t, resp, http.StatusConflict, apperr.CodeItemNotClaimable)

	// Deciding an already-decided request conflicts.
	resp = doJSON(t, "POST", base+"/"+itoa(carolClaim.ID)+"/reject", aliceToken, nil)
	wantCode(t, resp, http.StatusConflict, apperr.CodeConflict)
}

func TestAdminRoutes(t *testing.T) {
	server, database := setupTestServer(t)
	admin, adminToken := newUser(t, database, "Admin", "admin@example.com", model.RoleAdmin, model.RoleUser)
	user, userToken := newUser(t, database, "Alice", "alice@example.com")

	resp := doJSON(t, "GET", server.URL+"/api/users", userToken, nil)
	wantCode(t, resp, http.StatusForbidden, apperr.CodeForbidden)

	resp = doJSON(t, "GET", server.URL+"/api/users", adminToken, nil)
	wantStatus(t, resp, http.StatusOK)
	users := decodeBody[[]model.User](t, resp)
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}

	// Admins cannot delete themselves.
	resp = doJSON(t, "DELETE", server.URL+"/api/users/"+itoa(admin.ID), adminToken, nil)
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = doJSON(t, "DELETE", server.URL+"/api/users/"+itoa(user.ID), adminToken, nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// Deleted users cannot authenticate by email anymore.
	resp = doJSON(t, "POST", server.URL+"/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "password",
	})
	wantCode(t, resp, http.StatusUnauthorized, apperr.CodeUnauthorized)
}

func TestAdminModeratesAnyItem(t *testing.T) {
	server, database := setupTestServer(t)
	_, adminToken := newUser(t, database, "Admin", "admin@example.com", model.RoleAdmin, model.RoleUser)
	_, aliceToken := newUser(t, database, "Alice", "alice@example.com")

	item := createItem(t, server, aliceToken, walletPayload())

	resp := doJSON(t, "PATCH", server.URL+"/api/items/"+itoa(item.ID)+"/status", adminToken,
		map[string]string{"status": model.ItemStatusClaimed})
	wantStatus(t, resp, http.StatusOK)
	updated := decodeBody[model.Item](t, resp)
	if updated.Status != model.ItemStatusClaimed {
		t.Errorf("expected CLAIMED, got %s", updated.Status)
	}
}

func TestReportsFlow(t *testing.T) {
	server, database := setupTestServer(t)
	_, adminToken := newUser(t, database, "Admin", "admin@example.com", model.RoleAdmin, model.RoleUser)
	_, aliceToken := newUser(t, database, "Alice", "alice@example.com")
	_, bobToken := newUser(t, database, "Bob", "bob@example.com")

	item := createItem(t, server, aliceToken, walletPayload())

	resp := doJSON(t, "POST", server.URL+"/api/items/"+itoa(item.ID)+"/report", bobToken,
		map[string]string{"reporterContact": "bob@example.com", "reason": "spam listing"})
	wantStatus(t, resp, http.StatusCreated)
	report := decodeBody[model.Report](t, resp)

	resp = doJSON(t, "GET", server.URL+"/api/reports/my", bobToken, nil)
	wantStatus(t, resp, http.StatusOK)
	mine := decodeBody[model.Page[model.Report]](t, resp)
	if mine.TotalElements != 1 {
		t.Errorf("expected 1 own report, got %d", mine.TotalElements)
	}

	resp = doJSON(t, "GET", server.URL+"/api/reports", bobToken, nil)
	wantCode(t, resp, http.StatusForbidden, apperr.CodeForbidden)

	resp = doJSON(t, "GET", server.URL+"/api/reports", adminToken, nil)
	wantStatus(t, resp, http.StatusOK)
	all := decodeBody[model.Page[model.Report]](t, resp)
	if all.TotalElements != 1 {
		t.Errorf("expected 1 report, got %d", all.TotalElements)
	}

	// Moderation removal soft-deletes the reported item: it drops out of
	// listings but stays fetchable by id.
	resp = doJSON(t, "DELETE", server.URL+"/api/reports/"+itoa(report.ID)+"/item", adminToken, nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = doJSON(t, "GET", server.URL+"/api/items", "", nil)
	wantStatus(t, resp, http.StatusOK)
	listing := decodeBody[model.Page[model.Item]](t, resp)
	if listing.TotalElements != 0 {
		t.Errorf("expected soft-deleted item hidden from listing, got %d items", listing.TotalElements)
	}

	resp = doJSON(t, "GET", server.URL+"/api/items/"+itoa(item.ID), "", nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// A frozen item accepts no claims.
	resp = doJSON(t, "POST", server.URL+"/api/items/"+itoa(item.ID)+"/claim-requests", bobToken,
		map[string]string{"message": "mine"})
	wantCode(t, resp, http.StatusConflict, apperr.CodeItemNotClaimable)
}

func TestEmailChangeRevokesToken(t *testing.T) {
	server, database := setupTestServer(t)
	_, token := newUser(t, database, "Alice", "alice@example.com")

	resp := doJSON(t, "PUT", server.URL+"/api/users/me", token, map[string]string{
		"name": "Alice", "email": "alice.new@example.com",
	})
	wantStatus(t, resp, http.StatusOK)
	updated := decodeBody[model.User](t, resp)
	if updated.Email != "alice.new@example.com" {
		t.Errorf("expected new email persisted, got %q", updated.Email)
	}

	// The old token no longer authenticates.
	resp = doJSON(t, "GET", server.URL+"/api/users/me", token, nil)
	wantCode(t, resp, http.StatusUnauthorized, apperr.CodeUnauthorized)
}

func TestLogoutRevokesToken(t *testing.T) {
	server, database := setupTestServer(t)
	_, token := newUser(t, database, "Alice", "alice@example.com")

	resp := doJSON(t, "POST", server.URL+"/api/auth/logout", token, nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = doJSON(t, "GET", server.URL+"/api/users/me", token, nil)
	wantCode(t, resp, http.StatusUnauthorized, apperr.CodeUnauthorized)
}

func TestItemListFilters(t *testing.T) {
	server, database := setupTestServer(t)
	_, token := newUser(t, database, "Alice", "alice@example.com")

	createItem(t, server, token, walletPayload())
	createItem(t, server, token, map[string]string{
		"title": "Umbrella", "description": "Blue umbrella found near the station",
		"type": model.ItemTypeFound, "location": "Station",
	})

	resp := doJSON(t, "GET", server.URL+"/api/items?type=FOUND", "", nil)
	wantStatus(t, resp, http.StatusOK)
	page := decodeBody[model.Page[model.Item]](t, resp)
	if page.TotalElements != 1 || page.Content[0].Title != "Umbrella" {
		t.Errorf("expected only the FOUND item, got %+v", page.Content)
	}

	resp = doJSON(t, "GET", server.URL+"/api/items?q=wallet", "", nil)
	wantStatus(t, resp, http.StatusOK)
	page = decodeBody[model.Page[model.Item]](t, resp)
	if page.TotalElements != 1 || page.Content[0].Title != "Wallet" {
		t.Errorf("expected only the wallet, got %+v", page.Content)
	}

	resp = doJSON(t, "GET", server.URL+"/api/items/my", token, nil)
	wantStatus(t, resp, http.StatusOK)
	page = decodeBody[model.Page[model.Item]](t, resp)
	if page.TotalElements != 2 {
		t.Errorf("expected 2 own items, got %d", page.TotalElements)
	}
}

func TestChangePassword(t *testing.T) {
	server, database := setupTestServer(t)
	_, token := newUser(t, database, "Alice", "alice@example.com")

	resp := doJSON(t, "PUT", server.URL+"/api/auth/password", token, map[string]string{
		"currentPassword": "wrong", "newPassword": "new-password-1",
	})
	wantCode(t, resp, http.StatusUnauthorized, apperr.CodeUnauthorized)

	resp = doJSON(t, "PUT", server.URL+"/api/auth/password", token, map[string]string{
		"currentPassword": "password", "newPassword": "new-password-1",
	})
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// The token survives; the credential subject did not change.
	resp = doJSON(t, "GET", server.URL+"/api/users/me", token, nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = doJSON(t, "POST", server.URL+"/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "new-password-1",
	})
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()
}

func TestUpdateRoles(t *testing.T) {
	server, database := setupTestServer(t)
	admin, adminToken := newUser(t, database, "Admin", "admin@example.com", model.RoleAdmin, model.RoleUser)
	user, userToken := newUser(t, database, "Alice", "alice@example.com")

	resp := doJSON(t, "PUT", server.URL+"/api/users/"+itoa(user.ID)+"/roles", userToken,
		map[string][]string{"roles": {model.RoleAdmin}})
	wantCode(t, resp, http.StatusForbidden, apperr.CodeForbidden)

	resp = doJSON(t, "PUT", server.URL+"/api/users/"+itoa(user.ID)+"/roles", adminToken,
		map[string][]string{"roles": {"ROLE_WIZARD"}})
	wantCode(t, resp, http.StatusBadRequest, apperr.CodeValidation)

	resp = doJSON(t, "PUT", server.URL+"/api/users/"+itoa(admin.ID)+"/roles", adminToken,
		map[string][]string{"roles": {model.RoleUser}})
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = doJSON(t, "PUT", server.URL+"/api/users/"+itoa(user.ID)+"/roles", adminToken,
		map[string][]string{"roles": {model.RoleAdmin, model.RoleUser}})
	wantStatus(t, resp, http.StatusOK)
	updated := decodeBody[model.User](t, resp)
	if !updated.IsAdmin() {
		t.Errorf("expected promoted user to be admin, got roles %v", updated.Roles)
	}
}

func TestImageUploadAndServe(t *testing.T) {
	server, database := setupTestServer(t)
	_, aliceToken := newUser(t, database, "Alice", "alice@example.com")
	_, bobToken := newUser(t, database, "Bob", "bob@example.com")

	item := createItem(t, server, aliceToken, walletPayload())

	upload := func(token string) *http.Response {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, _ := mw.CreateFormFile("file", "wallet.png")
		png.Encode(part, image.NewRGBA(image.Rect(0, 0, 4, 4)))
		mw.Close()

		url := server.URL + "/api/images/upload?itemId=" + itoa(item.ID)
		req, _ := http.NewRequest("POST", url, &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("upload: %v", err)
		}
		return resp
	}

	// Only the owner may attach images.
	resp := upload(bobToken)
	wantCode(t, resp, http.StatusForbidden, apperr.CodeForbidden)

	resp = upload(aliceToken)
	wantStatus(t, resp, http.StatusCreated)
	img := decodeBody[model.Image](t, resp)
	if img.Ref == "" {
		t.Fatal("expected image reference")
	}
	if img.MIME != "image/jpeg" {
		t.Errorf("expected re-encoded JPEG, got %s", img.MIME)
	}

	// Serving is public.
	served, err := http.Get(server.URL + "/api/images/" + img.Ref)
	if err != nil {
		t.Fatalf("serving image: %v", err)
	}
	defer served.Body.Close()
	if served.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 serving image, got %d", served.StatusCode)
	}
	if ct := served.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", ct)
	}

	// The item carries its images in upload order.
	resp = doJSON(t, "GET", server.URL+"/api/items/"+itoa(item.ID), "", nil)
	wantStatus(t, resp, http.StatusOK)
	withImages := decodeBody[model.Item](t, resp)
	if len(withImages.Images) != 1 || withImages.Images[0].Ref != img.Ref {
		t.Errorf("expected image attached to item, got %+v", withImages.Images)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from metrics, got %d", resp.StatusCode)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azi77ry/personal-App/models"
)

// upload posts a multipart import request with the given file payload.
func (env *testEnv) upload(t *testing.T, token, filename string, payload []byte, overwrite bool) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	if overwrite {
		require.NoError(t, writer.WriteField("overwrite", "true"))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import_data", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.signup(t, "alice")

	w := env.do(t, http.MethodPost, "/api/update_profile", token, gin.H{
		"username": "alice_renamed",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username cannot be changed")

	w = env.do(t, http.MethodPost, "/api/update_profile", token, gin.H{
		"currency": "EUR",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	doc, err := env.docs.Load(testCtx(), userID)
	require.NoError(t, err)
	assert.Equal(t, "EUR", doc.Settings.Currency)
	assert.Equal(t, "alice", doc.Profile.Username)
}

func TestUpdateProfileEmailChange(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.signup(t, "alice")
	env.signup(t, "bob")

	// Mark verified first so the change is observable.
	require.NoError(t, env.docs.Update(testCtx(), userID, func(doc *models.UserDocument) error {
		doc.Profile.EmailVerified = true
		return nil
	}))

	w := env.do(t, http.MethodPost, "/api/update_profile", token, gin.H{
		"email": "bob@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "taken address must be rejected")

	w = env.do(t, http.MethodPost, "/api/update_profile", token, gin.H{
		"email": "alice2@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	doc, err := env.docs.Load(testCtx(), userID)
	require.NoError(t, err)
	assert.Equal(t, "alice2@example.com", doc.Profile.Email)
	assert.False(t, doc.Profile.EmailVerified, "email change resets verification")

	user, err := env.dir.FindByID(testCtx(), userID)
	require.NoError(t, err)
	assert.Equal(t, "alice2@example.com", user.Email, "directory follows the document")
}

func TestNotificationSettings(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "alice")

	w := env.do(t, http.MethodGet, "/api/get_notification_settings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Settings models.Notifications `json:"settings"`
	}
	decode(t, w, &got)
	assert.True(t, got.Settings.Email)
	assert.Equal(t, "09:00", got.Settings.Time)

	w = env.do(t, http.MethodPost, "/api/update_notifications", token, gin.H{
		"bills": false, "time": "21:30",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/get_notification_settings", token, nil)
	decode(t, w, &got)
	assert.False(t, got.Settings.Bills)
	assert.True(t, got.Settings.Email, "untouched flags keep their value")
	assert.Equal(t, "21:30", got.Settings.Time)

	w = env.do(t, http.MethodPost, "/api/update_notifications", token, gin.H{
		"time": "9 o'clock",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "alice")

	w := env.do(t, http.MethodPost, "/api/change_password", token, gin.H{
		"current_password": "wrong", "new_password": "brand-new-pw",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Current password is incorrect")

	w = env.do(t, http.MethodPost, "/api/change_password", token, gin.H{
		"current_password": "s3cret-pw", "new_password": "brand-new-pw",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/login", "", gin.H{
		"username": "alice", "password": "s3cret-pw",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/login", "", gin.H{
		"username": "alice", "password": "brand-new-pw",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExportOmitsProfileAndSettings(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "alice")
	env.addExpense(t, token, 10, "coffee")

	w := env.do(t, http.MethodGet, "/api/export_data", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "money_event_data_")

	var export map[string]json.RawMessage
	decode(t, w, &export)
	assert.Contains(t, export, "expenses")
	assert.NotContains(t, export, "profile")
	assert.NotContains(t, export, "settings")
}

func TestImportData(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.signup(t, "alice")
	env.addExpense(t, token, 10, "existing")

	dump := models.ExportData{
		Expenses: map[string]models.Expense{
			"imported-id": {Amount: 99, Category: "imported", Date: "2025-01-01"},
		},
		Budgets: map[string]models.Budget{
			"2025-01_food": {Category: "food", Amount: 200, Month: "2025-01"},
		},
	}
	payload, err := json.Marshal(dump)
	require.NoError(t, err)

	w := env.upload(t, token, "dump.json", payload, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	doc, err := env.docs.Load(testCtx(), userID)
	require.NoError(t, err)
	require.Len(t, doc.Expenses, 2, "merge keeps existing records")
	_, kept := doc.Expenses["imported-id"]
	assert.False(t, kept, "imported record ids are regenerated")
	_, kept = doc.Budgets["2025-01_food"]
	assert.True(t, kept, "budgets keep their composite key")

	w = env.upload(t, token, "dump.json", payload, true)
	require.Equal(t, http.StatusOK, w.Code)
	doc, err = env.docs.Load(testCtx(), userID)
	require.NoError(t, err)
	assert.Len(t, doc.Expenses, 1, "overwrite replaces the collection")

	w = env.upload(t, token, "dump.txt", payload, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.upload(t, token, "dump.json", []byte("{not json"), false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetDataKeepsProfileAndSettings(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.signup(t, "alice")
	env.addExpense(t, token, 10, "coffee")
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/update_profile", token, gin.H{"currency": "GBP"}).Code)

	w := env.do(t, http.MethodPost, "/api/reset_data", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	doc, err := env.docs.Load(testCtx(), userID)
	require.NoError(t, err)
	assert.Empty(t, doc.Expenses)
	assert.Equal(t, "alice", doc.Profile.Username)
	assert.Equal(t, "GBP", doc.Settings.Currency)
}

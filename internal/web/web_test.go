package web

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/nayzak/internal/auth"
	"github.com/erazemk/nayzak/internal/db"
	"github.com/erazemk/nayzak/internal/listing"
	"github.com/erazemk/nayzak/internal/model"
	"github.com/erazemk/nayzak/internal/storage"
	"github.com/erazemk/nayzak/internal/store"
)

const testJWTSecret = "test-secret"

type webEnv struct {
	handler http.Handler
	db      *sqlx.DB
	svc     *listing.Service
	files   *storage.DB
	admin   *model.User
}

func setupWeb(t *testing.T) *webEnv {
	t.Helper()
	database := db.NewTestDB(t)
	svc := listing.NewService(database)
	t.Cleanup(svc.Close)
	files := storage.NewDB(database)

	handler, err := NewRouter(database, testJWTSecret, svc, files)
	require.NoError(t, err)

	return &webEnv{
		handler: handler,
		db:      database,
		svc:     svc,
		files:   files,
		admin:   createUser(t, database, "admin@nayzak.ly", model.RoleAdmin),
	}
}

func createUser(t *testing.T, database *sqlx.DB, email, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := store.CreateUser(context.Background(), database, email, "Test", string(hash), role)
	require.NoError(t, err)
	return user
}

func session(t *testing.T, user *model.User) *http.Cookie {
	t.Helper()
	token, err := auth.GenerateToken(testJWTSecret, user)
	require.NoError(t, err)
	return &http.Cookie{Name: cookieName, Value: token}
}

func identity(user *model.User) *model.Identity {
	return &model.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func (e *webEnv) request(t *testing.T, method, path string, body io.Reader, contentType string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *webEnv) get(t *testing.T, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	return e.request(t, http.MethodGet, path, nil, "", cookie)
}

func (e *webEnv) postForm(t *testing.T, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	return e.request(t, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", cookie)
}

func (e *webEnv) createCar(t *testing.T, title, city, status string, imageURLs ...string) *model.Listing {
	t.Helper()
	in := model.ListingInput{
		Title:           title,
		Make:            "toyota",
		Model:           "camry",
		Year:            2023,
		Price:           120000,
		FuelType:        model.FuelPetrol,
		Transmission:    model.TransmissionAutomatic,
		BodyType:        model.BodySedan,
		Condition:       model.ConditionUsed,
		City:            city,
		ContactWhatsApp: "+218 91 234 5678",
		Status:          status,
	}
	images := make([]model.ImageInput, len(imageURLs))
	for i, u := range imageURLs {
		images[i] = model.ImageInput{URL: u}
	}
	car, err := e.svc.Create(context.Background(), in, images, identity(e.admin))
	require.NoError(t, err)
	return car
}

func (e *webEnv) storeImage(t *testing.T) string {
	t.Helper()
	u, err := e.files.Put(context.Background(), storage.NewKey(".png"), "image/png", pngBytes(t))
	require.NoError(t, err)
	return u
}

func (e *webEnv) imageExists(t *testing.T, u string) bool {
	t.Helper()
	key, ok := e.files.Key(u)
	require.True(t, ok)
	data, _, err := e.files.Open(context.Background(), key)
	require.NoError(t, err)
	return data != nil
}

func carForm(title string) url.Values {
	v := url.Values{}
	v.Set("title", title)
	v.Set("make", "toyota")
	v.Set("model", "camry")
	v.Set("year", "2023")
	v.Set("price", "120000")
	v.Set("mileage", "45000")
	v.Set("fuelType", model.FuelPetrol)
	v.Set("transmission", model.TransmissionAutomatic)
	v.Set("bodyType", model.BodySedan)
	v.Set("condition", model.ConditionUsed)
	v.Set("city", "tripoli")
	v.Set("contactWhatsApp", "+218 91 234 5678")
	v.Set("status", model.StatusPublished)
	return v
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	return buf.Bytes()
}

func multipartBody(t *testing.T, fields url.Values, files ...[]byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, vals := range fields {
		for _, v := range vals {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	for _, data := range files {
		part, err := mw.CreateFormFile("images", "car.png")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHomeShowsOnlyPublished(t *testing.T) {
	env := setupWeb(t)
	env.createCar(t, "Published Camry", "tripoli", model.StatusPublished)
	env.createCar(t, "Draft Camry", "tripoli", model.StatusDraft)

	rec := env.get(t, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Published Camry")
	assert.NotContains(t, rec.Body.String(), "Draft Camry")
}

func TestCarsPageFilters(t *testing.T) {
	env := setupWeb(t)
	env.createCar(t, "Tripoli Sedan", "tripoli", model.StatusPublished)
	env.createCar(t, "Misrata Sedan", "misrata", model.StatusPublished)

	rec := env.get(t, "/cars?city=misrata", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Misrata Sedan")
	assert.NotContains(t, rec.Body.String(), "Tripoli Sedan")

	rec = env.get(t, "/cars?search=nothing-matches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "لا توجد سيارات مطابقة")
}

func TestCarDetailCountsAnonymousViews(t *testing.T) {
	env := setupWeb(t)
	car := env.createCar(t, "Published Camry", "tripoli", model.StatusPublished)

	rec := env.get(t, "/cars/"+car.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Published Camry")
	assert.Contains(t, body, "https://wa.me/218912345678")

	// Admin previews do not count.
	rec = env.get(t, "/cars/"+car.ID, session(t, env.admin))
	require.Equal(t, http.StatusOK, rec.Code)

	env.svc.Close()
	stored, err := store.GetListing(context.Background(), env.db, car.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Views)
}

func TestCarDetailHidesDraftFromVisitors(t *testing.T) {
	env := setupWeb(t)
	draft := env.createCar(t, "Draft Camry", "tripoli", model.StatusDraft)

	assert.Equal(t, http.StatusNotFound, env.get(t, "/cars/"+draft.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.get(t, "/cars/missing", nil).Code)

	rec := env.get(t, "/cars/"+draft.ID, session(t, env.admin))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Draft Camry")
}

func TestAdminRequiresAdminSession(t *testing.T) {
	env := setupWeb(t)

	rec := env.get(t, "/admin", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = env.get(t, "/admin", &http.Cookie{Name: cookieName, Value: "garbage"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	user := createUser(t, env.db, "user@nayzak.ly", model.RoleUser)
	rec = env.get(t, "/admin/cars", session(t, user))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.postForm(t, "/admin/cars/new", carForm("Sneaky Camry"), session(t, user))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := setupWeb(t)

	form := url.Values{"email": {" ADMIN@nayzak.ly "}, "password": {"password"}}
	rec := env.postForm(t, "/login", form, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	var token string
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			token = c.Value
			assert.True(t, c.HttpOnly)
		}
	}
	require.NotEmpty(t, token)

	rec = env.get(t, "/admin", &http.Cookie{Name: cookieName, Value: token})
	assert.Equal(t, http.StatusOK, rec.Code)

	form.Set("password", "wrong")
	rec = env.postForm(t, "/login", form, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "غير صحيحة")
}

func TestLogoutRevokesSession(t *testing.T) {
	env := setupWeb(t)
	cookie := session(t, env.admin)

	require.Equal(t, http.StatusOK, env.get(t, "/admin", cookie).Code)

	rec := env.postForm(t, "/logout", url.Values{}, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.get(t, "/admin", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code, "a copied cookie stops working after logout")
}

func TestDashboardShowsStats(t *testing.T) {
	env := setupWeb(t)
	env.createCar(t, "Published Camry", "tripoli", model.StatusPublished)
	env.createCar(t, "Draft Camry", "tripoli", model.StatusDraft)

	rec := env.get(t, "/admin", session(t, env.admin))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Published Camry")
	assert.Contains(t, body, "Draft Camry")
	assert.Contains(t, body, "إجمالي المشاهدات")
}

func TestAdminCarsListsEveryStatus(t *testing.T) {
	env := setupWeb(t)
	env.createCar(t, "Published Camry", "tripoli", model.StatusPublished)
	env.createCar(t, "Draft Camry", "tripoli", model.StatusDraft)

	rec := env.get(t, "/admin/cars", session(t, env.admin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Published Camry")
	assert.Contains(t, rec.Body.String(), "Draft Camry")

	rec = env.get(t, "/admin/cars?status=DRAFT", session(t, env.admin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Published Camry")
	assert.Contains(t, rec.Body.String(), "Draft Camry")
}

func TestAdminCreateCarWithUpload(t *testing.T) {
	env := setupWeb(t)
	admin := session(t, env.admin)

	require.Equal(t, http.StatusOK, env.get(t, "/admin/cars/new", admin).Code)

	fields := carForm("Uploaded Camry")
	fields.Set("primary", "new:1")
	body, contentType := multipartBody(t, fields, pngBytes(t), pngBytes(t))
	rec := env.request(t, http.MethodPost, "/admin/cars/new", body, contentType, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/admin/cars?done=created", rec.Header().Get("Location"))

	page, err := env.svc.List(context.Background(), model.Criteria{}, identity(env.admin))
	require.NoError(t, err)
	require.Len(t, page.Listings, 1)
	car := page.Listings[0]
	assert.Equal(t, "Uploaded Camry", car.Title)
	require.NotNil(t, car.Mileage)
	assert.Equal(t, int64(45000), *car.Mileage)
	require.Len(t, car.Images, 2)
	assert.False(t, car.Images[0].IsPrimary)
	assert.True(t, car.Images[1].IsPrimary)

	img := env.get(t, car.Images[0].URL, nil)
	require.Equal(t, http.StatusOK, img.Code)
	assert.Equal(t, "image/png", img.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", img.Header().Get("X-Content-Type-Options"))
}

func TestAdminCreateRejectsInvalidForm(t *testing.T) {
	env := setupWeb(t)

	form := carForm("Car")
	form.Set("price", "0")
	rec := env.postForm(t, "/admin/cars/new", form, session(t, env.admin))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "العنوان يجب أن يكون")
	assert.Contains(t, body, "السعر يجب أن يكون")

	form = carForm("Valid Camry")
	form.Set("mileage", "lots")
	rec = env.postForm(t, "/admin/cars/new", form, session(t, env.admin))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	stats, err := env.svc.Stats(context.Background(), identity(env.admin))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

func TestAdminCreateRejectsNonImageUpload(t *testing.T) {
	env := setupWeb(t)

	body, contentType := multipartBody(t, carForm("Uploaded Camry"), []byte("not an image"))
	rec := env.request(t, http.MethodPost, "/admin/cars/new", body, contentType, session(t, env.admin))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "غير مدعوم")

	var uploads int
	require.NoError(t, env.db.Get(&uploads, `SELECT COUNT(*) FROM uploads`))
	assert.Zero(t, uploads)
}

func TestAdminEditRemovesUntickedImages(t *testing.T) {
	env := setupWeb(t)
	first, second := env.storeImage(t), env.storeImage(t)
	car := env.createCar(t, "Gallery Camry", "tripoli", model.StatusDraft, first, second)

	rec := env.get(t, "/admin/cars/"+car.ID+"/edit", session(t, env.admin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Gallery Camry")

	form := carForm("Gallery Camry Updated")
	form.Set("keep", second)
	form.Set("primary", second)
	rec = env.postForm(t, "/admin/cars/"+car.ID+"/edit", form, session(t, env.admin))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	updated, err := env.svc.Get(context.Background(), car.ID, identity(env.admin))
	require.NoError(t, err)
	assert.Equal(t, "Gallery Camry Updated", updated.Title)
	assert.Equal(t, model.StatusPublished, updated.Status)
	require.Len(t, updated.Images, 1)
	assert.Equal(t, second, updated.Images[0].URL)
	assert.True(t, updated.Images[0].IsPrimary)

	assert.False(t, env.imageExists(t, first))
	assert.True(t, env.imageExists(t, second))
}

func TestAdminEditMissingCar(t *testing.T) {
	env := setupWeb(t)
	rec := env.postForm(t, "/admin/cars/missing/edit", carForm("Ghost Camry"), session(t, env.admin))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminDeleteCar(t *testing.T) {
	env := setupWeb(t)
	img := env.storeImage(t)
	car := env.createCar(t, "Doomed Camry", "tripoli", model.StatusPublished, img)

	rec := env.postForm(t, "/admin/cars/"+car.ID+"/delete", url.Values{}, session(t, env.admin))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/cars?done=deleted", rec.Header().Get("Location"))

	_, err := env.svc.Get(context.Background(), car.ID, identity(env.admin))
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.False(t, env.imageExists(t, img))

	rec = env.postForm(t, "/admin/cars/"+car.ID+"/delete", url.Values{}, session(t, env.admin))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSettingsChangePassword(t *testing.T) {
	env := setupWeb(t)
	cookie := session(t, env.admin)

	form := url.Values{
		"current_password": {"password"},
		"new_password":     {"new-password"},
		"confirm_password": {"different"},
	}
	rec := env.postForm(t, "/admin/settings", form, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	form.Set("confirm_password", "new-password")
	form.Set("current_password", "wrong")
	rec = env.postForm(t, "/admin/settings", form, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	form.Set("current_password", "password")
	rec = env.postForm(t, "/admin/settings", form, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "تم تغيير كلمة المرور")

	user, err := store.GetUser(context.Background(), env.db, env.admin.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("new-password")))
}

func TestUploadNotFound(t *testing.T) {
	env := setupWeb(t)
	assert.Equal(t, http.StatusNotFound, env.get(t, "/uploads/cars/missing.png", nil).Code)
}

func TestFilterCriteria(t *testing.T) {
	tests := []struct {
		query    string
		min, max *int64
	}{
		{"priceRange=25000-50000", ptr[int64](25000), ptr[int64](50000)},
		{"priceRange=0-25000", nil, ptr[int64](25000)},
		{"priceRange=200000%2B", ptr[int64](200000), nil},
		{"priceRange=25000-50000&minPrice=30000", ptr[int64](30000), ptr[int64](50000)},
		{"priceRange=bogus", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			c := filterCriteria(q)
			assert.Equal(t, tt.min, c.MinPrice)
			assert.Equal(t, tt.max, c.MaxPrice)
		})
	}

	q, _ := url.ParseQuery("status=DRAFT&featured=1")
	c := filterCriteria(q)
	assert.Empty(t, c.Status, "the public catalogue never filters by status")
	assert.Nil(t, c.Featured)
}

func TestNewPager(t *testing.T) {
	q := url.Values{"city": {"tripoli"}, "page": {"3"}}

	assert.Empty(t, newPager("/cars", q, 1, 1).Links)

	p := newPager("/cars", q, 1, 10)
	require.Len(t, p.Links, 5)
	assert.Equal(t, 1, p.Links[0].Number)
	assert.True(t, p.Links[0].Current)
	assert.Empty(t, p.PrevURL)
	assert.Equal(t, "/cars?city=tripoli&page=2", p.NextURL)

	p = newPager("/cars", q, 5, 10)
	assert.Equal(t, 3, p.Links[0].Number)
	assert.Equal(t, 7, p.Links[4].Number)

	p = newPager("/cars", q, 10, 10)
	assert.Equal(t, 6, p.Links[0].Number)
	assert.Empty(t, p.NextURL)
	assert.Equal(t, "/cars?city=tripoli&page=9", p.PrevURL)
}

func TestFormatting(t *testing.T) {
	for n, want := range map[int64]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		45000:   "45,000",
		1234567: "1,234,567",
		-45000:  "-45,000",
	} {
		assert.Equal(t, want, formatNumber(n))
	}

	assert.Equal(t, "120,000 د.ل", formatPrice(120000))
	assert.Equal(t, "https://wa.me/218912345678", string(whatsAppLink("+218 91-234 5678")))

	day := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "16 أكتوبر 2026", formatDate(day))
	assert.Equal(t, "16 أكتوبر 2026", formatDate(&day))
	assert.Equal(t, "", formatDate((*time.Time)(nil)))
}

func ptr[T any](v T) *T { return &v }

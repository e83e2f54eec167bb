package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"fittrack/models"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStore struct {
	objects   map[string][]byte
	deleteErr error
	deleted   []string
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string][]byte{}} }

func (s *fakeStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.objects[key] = data
	return "https://cdn.example.com/" + key, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

type fakeModerator struct{ labels []string }

func (m fakeModerator) Check(context.Context, []byte) ([]string, error) { return m.labels, nil }

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type profileFixture struct {
	db    *gorm.DB
	svc   *ProfileService
	store *fakeStore
	hook  *test.Hook
}

func newProfileFixture(t *testing.T, moderator ImageModerator) profileFixture {
	t.Helper()
	db := newTestDB(t)
	log, hook := test.NewNullLogger()
	store := newFakeStore()
	follows := NewFollowService(db, nil, nil)
	return profileFixture{
		db:    db,
		svc:   NewProfileService(db, follows, store, moderator, log),
		store: store,
		hook:  hook,
	}
}

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }
func f64Ptr(v float64) *float64 { return &v }

func TestGetProfile_MissingUserIsNil(t *testing.T) {
	f := newProfileFixture(t, nil)
	p, err := f.svc.GetProfile(context.Background(), 12345)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestGetProfile_ProfileComplete(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t, nil)
	u := createUser(t, f.db, "alice", false)

	p, err := f.svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.False(t, p.ProfileComplete)

	_, err = f.svc.UpdateProfile(ctx, u.ID, ProfilePatch{FirstName: strPtr("Alice"), LastName: strPtr("Smith")})
	require.NoError(t, err)
	p, err = f.svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, p.ProfileComplete, "age is still missing")

	_, err = f.svc.UpdateProfile(ctx, u.ID, ProfilePatch{Age: intPtr(30), Height: f64Ptr(170), Weight: f64Ptr(65)})
	require.NoError(t, err)
	p, err = f.svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, p.ProfileComplete)
	require.NotNil(t, p.BMI)
	assert.Equal(t, 22.5, p.BMI.Value)
	assert.Equal(t, "Normal weight", p.BMI.Category)
}

func TestUpdateProfile_UpsertKeepsUnspecifiedFields(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t, nil)
	u := createUser(t, f.db, "alice", false)

	first, err := f.svc.UpdateProfile(ctx, u.ID, ProfilePatch{FirstName: strPtr("Alice"), Bio: strPtr("lifts")})
	require.NoError(t, err)

	second, err := f.svc.UpdateProfile(ctx, u.ID, ProfilePatch{
		Email:    strPtr("hijack@example.com"),
		LastName: strPtr("Smith"),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Alice", second.FirstName)
	assert.Equal(t, "lifts", second.Bio)
	assert.Equal(t, "Smith", second.LastName)

	var user models.User
	require.NoError(t, f.db.First(&user, u.ID).Error)
	assert.Equal(t, "alice@example.com", user.Email)

	var n int64
	require.NoError(t, f.db.Model(&models.Profile{}).Where("user_id = ?", u.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	_, err = f.svc.UpdateProfile(ctx, 999, ProfilePatch{FirstName: strPtr("x")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetProfileByUsername(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t, nil)
	alice := createUser(t, f.db, "alice", false)
	createUser(t, f.db, "bob", false)

	p, err := f.svc.GetProfileByUsername(ctx, "bob", alice.ID)
	require.NoError(t, err)
	require.NotNil(t, p.IsFollowing)
	assert.False(t, *p.IsFollowing)

	_, err = f.svc.follows.Follow(ctx, alice.ID, "bob")
	require.NoError(t, err)

	p, err = f.svc.GetProfileByUsername(ctx, "Bob", alice.ID)
	require.NoError(t, err)
	assert.True(t, *p.IsFollowing)
	assert.EqualValues(t, 1, p.Followers)

	_, err = f.svc.GetProfileByUsername(ctx, "ghost", alice.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSearchUsers(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t, nil)
	for i := 0; i < 12; i++ {
		createUser(t, f.db, fmt.Sprintf("john%02d", i), false)
	}
	createUser(t, f.db, "majority", false)
	createUser(t, f.db, "alice", false)
	createUser(t, f.db, "", false)

	short, err := f.svc.SearchUsers(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, short)

	res, err := f.svc.SearchUsers(ctx, "JO")
	require.NoError(t, err)
	assert.Len(t, res, 10)
	for _, u := range res {
		assert.Contains(t, strings.ToLower(*u.Username), "jo")
	}

	res, err = f.svc.SearchUsers(ctx, "jor")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "majority", *res[0].Username)

	res, err = f.svc.SearchUsers(ctx, "%_")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t, nil)
	u := createUser(t, f.db, "alice", false)
	img := pngBytes(t)

	first, err := f.svc.UploadImage(ctx, u.ID, ImageUpload{Filename: "me.png", Data: img})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.ImageURL, fmt.Sprintf("https://cdn.example.com/profile/%d/", u.ID)))
	assert.True(t, strings.HasSuffix(first.ImageURL, ".png"))
	require.Len(t, f.store.objects, 1)

	// a failing cleanup of the old object must not fail the upload
	f.store.deleteErr = errors.New("s3 down")
	second, err := f.svc.UploadImage(ctx, u.ID, ImageUpload{Filename: "me2.png", Data: img})
	require.NoError(t, err)
	assert.NotEqual(t, first.ImageURL, second.ImageURL)
	require.Len(t, f.store.deleted, 1)
	assert.Equal(t, logrus.WarnLevel, f.hook.LastEntry().Level)

	p, err := f.svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ImageURL, p.ImageURL)
}

func TestUploadImage_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t, nil)
	u := createUser(t, f.db, "alice", false)

	_, err := f.svc.UploadImage(ctx, u.ID, ImageUpload{Filename: "a.txt", Data: []byte("hello world")})
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = f.svc.UploadImage(ctx, u.ID, ImageUpload{Filename: "big.png", Data: make([]byte, MaxImageBytes+1)})
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = f.svc.UploadImage(ctx, u.ID, ImageUpload{Filename: "none.png"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	moderated := newProfileFixture(t, fakeModerator{labels: []string{"Explicit Nudity"}})
	v := createUser(t, moderated.db, "bob", false)
	_, err = moderated.svc.UploadImage(ctx, v.ID, ImageUpload{Filename: "x.png", Data: pngBytes(t)})
	assert.ErrorIs(t, err, ErrImageRejected)
	assert.Empty(t, moderated.store.objects)
}

func TestDeleteImage(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t, nil)
	u := createUser(t, f.db, "alice", false)

	res, err := f.svc.DeleteImage(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, res.Deleted, "no image is a no-op")

	_, err = f.svc.UploadImage(ctx, u.ID, ImageUpload{Filename: "me.png", Data: pngBytes(t)})
	require.NoError(t, err)

	f.store.deleteErr = errors.New("s3 down")
	res, err = f.svc.DeleteImage(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)

	p, err := f.svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, p.ImageURL)
}

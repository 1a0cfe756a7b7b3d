package settings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishiapp/krishi-settings/internal/domain"
	domainerrors "github.com/krishiapp/krishi-settings/internal/errors"
	"github.com/krishiapp/krishi-settings/internal/store"
	"github.com/krishiapp/krishi-settings/internal/store/redisstore"
)

func TestNew_RejectsInvalidDefaults(t *testing.T) {
	defaults := domain.DefaultUserSettings()
	defaults.Email = "not-an-email"

	_, err := New(newMemStore(), Options{Defaults: defaults}, testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestInitialize_PartialRecordLoadsFullyPopulated(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, mr.Set("settings:k", `{"settings":{"darkMode":true}}`))

	e, err := New(redisstore.NewFromClient(client, "k"), Options{}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	require.NoError(t, e.Initialize(testContext(t)))

	got, ok := e.Snapshot()
	require.True(t, ok)
	want := domain.DefaultUserSettings()
	want.DarkMode = true
	assert.Equal(t, want, got)

	profile, ok := e.PublicProfile()
	require.True(t, ok)
	assert.Equal(t, "Ramesh Kumar", profile.DisplayName)
}

func TestInitialize_InvalidStoredSettingsAreRejected(t *testing.T) {
	stored := domain.DefaultUserSettings()
	stored.DisplayName = ""
	stored.Language = "xx"
	e := newEngine(t, seededStore(stored), Options{})

	err := e.Initialize(testContext(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrPersistence)
	assert.ErrorIs(t, err, store.ErrCorrupt)

	assert.Equal(t, StatusLoading, e.Status(), "a bad record does not make the engine ready")
	_, ok := e.Snapshot()
	assert.False(t, ok)
	_, err = e.UpdateOne(testContext(t), domain.FieldDarkMode, true)
	assert.ErrorIs(t, err, domainerrors.ErrNotInitialized)
}

func TestInitialize_SeedsDefaultsIntoEmptyStore(t *testing.T) {
	s := newMemStore()
	e := newEngine(t, s, Options{})

	assert.Equal(t, StatusLoading, e.Status())
	_, loaded := e.Snapshot()
	assert.False(t, loaded)

	require.NoError(t, e.Initialize(testContext(t)))

	assert.Equal(t, StatusReady, e.Status())
	got, loaded := e.Snapshot()
	assert.True(t, loaded)
	assert.Equal(t, domain.DefaultUserSettings(), got)

	stored, found := s.stored()
	require.True(t, found)
	assert.Equal(t, domain.DefaultUserSettings(), stored)

	reloaded, ok, err := s.Load(testContext(t))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, got, reloaded)
}

func TestInitialize_UsesInjectedDefaults(t *testing.T) {
	defaults := domain.DefaultUserSettings()
	defaults.DisplayName = "Sita Devi"
	defaults.Language = domain.LanguageHindi

	s := newMemStore()
	e := readyEngine(t, s, Options{Defaults: defaults})

	got, _ := e.Snapshot()
	assert.Equal(t, defaults, got)
	stored, _ := s.stored()
	assert.Equal(t, defaults, stored)
}

func TestInitialize_LoadsExistingSettings(t *testing.T) {
	existing := domain.DefaultUserSettings()
	existing.DarkMode = true
	existing.Phone = "+91 90000 00000"

	s := seededStore(existing)
	e := readyEngine(t, s, Options{})

	got, _ := e.Snapshot()
	assert.Equal(t, existing, got)
	assert.Equal(t, int32(0), s.saves.Load(), "loading must not write")
}

func TestInitialize_ConcurrentCallersShareOneLoad(t *testing.T) {
	s := newMemStore()
	s.loadDelay = 50 * time.Millisecond
	e := newEngine(t, s, Options{})

	ctx := testContext(t)
	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = e.Initialize(ctx)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), s.loads.Load())
	assert.Equal(t, int32(1), s.saves.Load(), "defaults seeded once")

	require.NoError(t, e.Initialize(ctx))
	assert.Equal(t, int32(1), s.loads.Load(), "initialized engine does not reload")
}

func TestInitialize_FailureIsRetryable(t *testing.T) {
	s := newMemStore()
	s.setLoadErr(errStoreDown)
	e := newEngine(t, s, Options{})

	err := e.Initialize(testContext(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrPersistence)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, StatusLoading, e.Status())

	s.setLoadErr(nil)
	require.NoError(t, e.Initialize(testContext(t)))
	assert.Equal(t, StatusReady, e.Status())
	assert.Equal(t, int32(2), s.loads.Load())
}

func TestInitialize_SeedFailureLeavesEngineLoading(t *testing.T) {
	s := newMemStore()
	s.failSave = func(int32) bool { return true }
	e := newEngine(t, s, Options{})

	err := e.Initialize(testContext(t))
	assert.ErrorIs(t, err, domainerrors.ErrPersistence)
	assert.Equal(t, StatusLoading, e.Status())
}

func TestInitialize_CallerContextCancelled(t *testing.T) {
	s := newMemStore()
	s.loadDelay = 200 * time.Millisecond
	e := newEngine(t, s, Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, e.Initialize(ctx), context.DeadlineExceeded)

	// The shared load keeps going for other callers.
	require.NoError(t, e.Initialize(testContext(t)))
}

func TestUpdate_BeforeInitializeIsRejected(t *testing.T) {
	s := newMemStore()
	e := newEngine(t, s, Options{})

	_, err := e.UpdateOne(testContext(t), domain.FieldDarkMode, true)
	assert.ErrorIs(t, err, domainerrors.ErrNotInitialized)
	assert.True(t, e.Pending().IsEmpty())
	assert.Equal(t, int32(0), s.saves.Load())
}

func TestUpdateOne_CommitsAndClearsPending(t *testing.T) {
	s := newMemStore()
	e := readyEngine(t, s, Options{})
	s.gate = make(chan struct{})

	ctx := testContext(t)
	w, err := e.UpdateOne(ctx, domain.FieldDarkMode, true)
	require.NoError(t, err)
	require.NotEmpty(t, w.ID)
	assert.Equal(t, []domain.Field{domain.FieldDarkMode}, w.Fields())

	assert.True(t, e.IsPending(domain.FieldDarkMode))
	assert.Equal(t, StatePending, e.FieldState(domain.FieldDarkMode))
	assert.True(t, e.Pending().Contains(domain.FieldDarkMode))

	// Published before the store answers.
	got, _ := e.Snapshot()
	assert.True(t, got.DarkMode)

	s.gate <- struct{}{}
	require.NoError(t, w.Wait(ctx))

	assert.False(t, e.IsPending(domain.FieldDarkMode))
	assert.True(t, e.IsSaved(domain.FieldDarkMode))
	assert.True(t, e.RecentlySaved().Contains(domain.FieldDarkMode))
	assert.Nil(t, w.Cascade())

	stored, _ := s.stored()
	assert.True(t, stored.DarkMode)
	theme, ok := e.Theme()
	require.True(t, ok)
	assert.Equal(t, domain.ThemeDark, theme)
}

func TestUpdateOne_RecentlySavedExpires(t *testing.T) {
	s := newMemStore()
	e := readyEngine(t, s, Options{SavedWindow: 50 * time.Millisecond})

	require.NoError(t, e.Set(testContext(t), domain.FieldVoiceInput, false))
	assert.True(t, e.IsSaved(domain.FieldVoiceInput))

	assert.Eventually(t, func() bool {
		return e.FieldState(domain.FieldVoiceInput) == StateIdle
	}, time.Second, 10*time.Millisecond)
	assert.False(t, e.RecentlySaved().Contains(domain.FieldVoiceInput))
}

func TestUpdateOne_NewWriteClearsSavedMark(t *testing.T) {
	s := newMemStore()
	e := readyEngine(t, s, Options{SavedWindow: time.Minute})

	ctx := testContext(t)
	require.NoError(t, e.Set(ctx, domain.FieldAutoSync, false))
	require.True(t, e.IsSaved(domain.FieldAutoSync))

	s.gate = make(chan struct{})
	w, err := e.UpdateOne(ctx, domain.FieldAutoSync, true)
	require.NoError(t, err)
	assert.False(t, e.IsSaved(domain.FieldAutoSync))
	assert.True(t, e.IsPending(domain.FieldAutoSync))

	close(s.gate)
	require.NoError(t, w.Wait(ctx))
	assert.True(t, e.IsSaved(domain.FieldAutoSync))
}

func TestUpdate_InvalidChangesLeaveStateUntouched(t *testing.T) {
	tests := []struct {
		name    string
		changes map[domain.Field]any
		field   string
	}{
		{"unknown field", map[domain.Field]any{"favouriteCrop": "wheat"}, "favouriteCrop"},
		{"bool given string", map[domain.Field]any{domain.FieldDarkMode: "yes"}, "darkMode"},
		{"string given number", map[domain.Field]any{domain.FieldPhone: 98765}, "phone"},
		{"unsupported language", map[domain.Field]any{domain.FieldLanguage: "fr"}, "language"},
		{"malformed email", map[domain.Field]any{domain.FieldEmail: "ramesh-at-example"}, "email"},
		{"empty display name", map[domain.Field]any{domain.FieldDisplayName: ""}, "displayName"},
		{"nil value", map[domain.Field]any{domain.FieldAutoSync: nil}, "autoSync"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newMemStore()
			e := readyEngine(t, s, Options{})
			before, _ := e.Snapshot()
			saves := s.saves.Load()

			w, err := e.UpdateMany(testContext(t), tt.changes)
			require.Error(t, err)
			assert.Nil(t, w)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)

			var derr *domainerrors.Error
			require.ErrorAs(t, err, &derr)
			details, ok := derr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.field)

			after, _ := e.Snapshot()
			assert.Equal(t, before, after)
			assert.True(t, e.Pending().IsEmpty())
			assert.Equal(t, saves, s.saves.Load())
		})
	}
}

func TestUpdateMany_ReportsEveryBadField(t *testing.T) {
	e := readyEngine(t, newMemStore(), Options{})

	_, err := e.UpdateMany(testContext(t), map[domain.Field]any{
		domain.FieldDarkMode:    "on",
		domain.FieldLanguage:    42,
		domain.FieldOfflineMode: true,
	})
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	details := derr.Details.(map[string]string)
	assert.Len(t, details, 2)
	assert.Contains(t, details, "darkMode")
	assert.Contains(t, details, "language")

	got, _ := e.Snapshot()
	assert.False(t, got.OfflineMode, "valid field in a rejected batch is not applied")
}

func TestUpdateMany_EmptyIsRejected(t *testing.T) {
	e := readyEngine(t, newMemStore(), Options{})

	_, err := e.UpdateMany(testContext(t), map[domain.Field]any{})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUpdateMany_AppliesAsOneWrite(t *testing.T) {
	s := newMemStore()
	e := readyEngine(t, s, Options{})
	seeded := s.saves.Load()

	require.NoError(t, e.SetMany(testContext(t), map[domain.Field]any{
		domain.FieldLanguage:     "hi-IN",
		domain.FieldHideLocation: true,
		domain.FieldDisplayName:  "Ramesh K.",
	}))

	assert.Equal(t, seeded+1, s.saves.Load())
	got, _ := e.Snapshot()
	assert.Equal(t, domain.LanguageHindi, got.Language)
	assert.True(t, got.HideLocation)
	assert.Equal(t, "Ramesh K.", got.DisplayName)
}

func TestUpdate_SaveFailureRollsBack(t *testing.T) {
	rec := &recorder{}
	s := newMemStore()
	e := readyEngine(t, s, Options{Emitter: rec})
	before, _ := e.Snapshot()

	s.failSave = func(int32) bool { return true }
	ctx := testContext(t)
	w, err := e.UpdateOne(ctx, domain.FieldHideEarnings, false)
	require.NoError(t, err)

	err = w.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrPersistence)
	assert.ErrorIs(t, err, errStoreDown)

	after, _ := e.Snapshot()
	assert.Equal(t, before, after)
	assert.Equal(t, StateIdle, e.FieldState(domain.FieldHideEarnings))

	failed := rec.failed()
	require.Len(t, failed, 1)
	assert.Equal(t, w.ID, failed[0].WriteID)
	assert.Equal(t, []domain.Field{domain.FieldHideEarnings}, failed[0].Fields)

	stored, _ := s.stored()
	assert.True(t, stored.HideEarnings)
}

func TestUpdate_SaveTimeoutRollsBack(t *testing.T) {
	s := newMemStore()
	e := readyEngine(t, s, Options{StoreTimeout: 50 * time.Millisecond})

	s.hang = make(chan struct{})
	t.Cleanup(func() { close(s.hang) })

	err := e.Set(testContext(t), domain.FieldBiometricLogin, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrPersistence)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	got, _ := e.Snapshot()
	assert.False(t, got.BiometricLogin)
	assert.False(t, e.IsPending(domain.FieldBiometricLogin))
}

func TestUpdate_SaveLandingAfterTimeoutIsOverwritten(t *testing.T) {
	s := newMemStore()
	e := readyEngine(t, s, Options{StoreTimeout: 50 * time.Millisecond})

	hang := make(chan struct{})
	s.hang = hang

	require.Error(t, e.Set(testContext(t), domain.FieldBiometricLogin, true))
	got, _ := e.Snapshot()
	require.False(t, got.BiometricLogin)

	// The abandoned save now reaches the store with the rolled-back value.
	close(hang)

	assert.Eventually(t, func() bool {
		h := s.history()
		if len(h) < 3 {
			return false
		}
		return h[len(h)-2].BiometricLogin && !h[len(h)-1].BiometricLogin
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, e.Drain(testContext(t)))
	stored, _ := s.stored()
	assert.Equal(t, got, stored, "store matches the snapshot again")
}

func TestUpdate_FailureAfterSuccessRestoresPreviousWrite(t *testing.T) {
	s := newMemStore()
	e := readyEngine(t, s, Options{})
	seeded := s.saves.Load()

	// Second write after seeding fails.
	s.failSave = func(n int32) bool { return n == seeded+2 }

	ctx := testContext(t)
	w1, err := e.UpdateOne(ctx, domain.FieldAutoDetectLocation, false)
	require.NoError(t, err)
	w2, err := e.UpdateOne(ctx, domain.FieldOfflineMode, true)
	require.NoError(t, err)

	require.NoError(t, w1.Wait(ctx))
	require.ErrorIs(t, w2.Wait(ctx), domainerrors.ErrPersistence)

	got, _ := e.Snapshot()
	assert.False(t, got.AutoDetectLocation, "first write survives")
	assert.False(t, got.OfflineMode, "second write rolled back")
}

func TestUpdate_CancelledBeforeStartIsAborted(t *testing.T) {
	s := newMemStore()
	e := readyEngine(t, s, Options{})
	s.gate = make(chan struct{})

	ctx := testContext(t)
	first, err := e.UpdateOne(ctx, domain.FieldVoiceInput, false)
	require.NoError(t, err)

	cctx, cancel := context.WithCancel(ctx)
	second, err := e.UpdateOne(cctx, domain.FieldAutoSync, false)
	require.NoError(t, err)
	cancel()

	close(s.gate)
	require.NoError(t, first.Wait(ctx))
	assert.ErrorIs(t, second.Wait(ctx), context.Canceled)

	got, _ := e.Snapshot()
	assert.True(t, got.AutoSync)
	assert.False(t, e.IsPending(domain.FieldAutoSync))
}

func TestUpdate_IdempotentRoundTrip(t *testing.T) {
	bs, err := store.New(store.Options{InMemory: true}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bs.Close() })

	e, err := New(bs, Options{}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	ctx := testContext(t)
	require.NoError(t, e.Initialize(ctx))
	require.NoError(t, e.Set(ctx, domain.FieldLanguage, domain.LanguageTamil))
	require.NoError(t, e.Set(ctx, domain.FieldLanguage, domain.LanguageTamil))

	got, _ := e.Snapshot()
	assert.Equal(t, domain.LanguageTamil, got.Language)

	loaded, ok, err := bs.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, got, loaded)
}

func TestUpdate_ConcurrentDifferentFieldsBothCommit(t *testing.T) {
	s := newMemStore()
	e := readyEngine(t, s, Options{})
	ctx := testContext(t)

	w1, err := e.UpdateOne(ctx, domain.FieldVoiceInput, false)
	require.NoError(t, err)
	w2, err := e.UpdateOne(ctx, domain.FieldAutoSync, false)
	require.NoError(t, err)

	require.NoError(t, w1.Wait(ctx))
	require.NoError(t, w2.Wait(ctx))

	got, _ := e.Snapshot()
	assert.False(t, got.VoiceInput)
	assert.False(t, got.AutoSync)

	stored, _ := s.stored()
	assert.False(t, stored.VoiceInput)
	assert.False(t, stored.AutoSync)
	assert.True(t, e.Pending().IsEmpty())
}

func TestUpdate_ManyGoroutinesNoLostUpdates(t *testing.T) {
	s := newMemStore()
	e := readyEngine(t, s, Options{})
	ctx := testContext(t)

	fields := []domain.Field{
		domain.FieldHidePhoneNumber,
		domain.FieldHideLocation,
		domain.FieldDarkMode,
		domain.FieldBiometricLogin,
		domain.FieldOfflineMode,
	}

	var wg sync.WaitGroup
	for _, f := range fields {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, e.Set(ctx, f, true))
		}()
	}
	wg.Wait()

	got, _ := e.Snapshot()
	stored, _ := s.stored()
	for _, f := range fields {
		assert.Equal(t, true, got.Get(f), "snapshot %s", f)
		assert.Equal(t, true, stored.Get(f), "store %s", f)
	}
}

func TestUpdate_SameFieldStaysPendingUntilLastWrite(t *testing.T) {
	s := newMemStore()
	e := readyEngine(t, s, Options{SavedWindow: time.Minute})
	s.gate = make(chan struct{})
	ctx := testContext(t)

	w1, err := e.UpdateOne(ctx, domain.FieldDarkMode, true)
	require.NoError(t, err)
	w2, err := e.UpdateOne(ctx, domain.FieldDarkMode, false)
	require.NoError(t, err)

	s.gate <- struct{}{}
	require.NoError(t, w1.Wait(ctx))
	assert.True(t, e.IsPending(domain.FieldDarkMode))
	assert.False(t, e.IsSaved(domain.FieldDarkMode))

	s.gate <- struct{}{}
	require.NoError(t, w2.Wait(ctx))
	assert.True(t, e.IsSaved(domain.FieldDarkMode))

	got, _ := e.Snapshot()
	assert.False(t, got.DarkMode)
}

func TestDrain_WaitsForQueuedWrites(t *testing.T) {
	s := newMemStore()
	e := readyEngine(t, s, Options{})
	ctx := testContext(t)

	var writes []*Write
	for _, f := range []domain.Field{domain.FieldVoiceInput, domain.FieldAutoSync, domain.FieldMasterNotifications} {
		w, err := e.UpdateOne(ctx, f, false)
		require.NoError(t, err)
		writes = append(writes, w)
	}

	require.NoError(t, e.Drain(ctx))
	for _, w := range writes {
		select {
		case <-w.Done():
		default:
			t.Fatalf("write %s not finished after Drain", w.ID)
		}
	}
	assert.True(t, e.Pending().IsEmpty(), "cascade finished too")
}

func TestGet(t *testing.T) {
	e := readyEngine(t, newMemStore(), Options{})

	v, err := e.Get(domain.FieldLanguage)
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageEnglish, v)

	_, err = e.Get("nope")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestReads_BeforeInitializeReportNoData(t *testing.T) {
	e := newEngine(t, newMemStore(), Options{})

	_, err := e.Get(domain.FieldDisplayName)
	assert.ErrorIs(t, err, domainerrors.ErrNotInitialized)

	_, ok := e.Theme()
	assert.False(t, ok)

	_, ok = e.Snapshot()
	assert.False(t, ok)

	_, ok = e.PublicProfile()
	assert.False(t, ok)

	_, err = e.Get("nope")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound, "unknown names are rejected even while loading")
}

func TestClose(t *testing.T) {
	s := newMemStore()
	e := readyEngine(t, s, Options{})

	require.NoError(t, e.Close())
	require.NoError(t, e.Close(), "close is idempotent")

	_, err := e.UpdateOne(testContext(t), domain.FieldDarkMode, true)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, e.Drain(testContext(t)), ErrClosed)
	assert.True(t, e.Pending().IsEmpty())
}

func TestEvents_CommittedCarriesBeforeAndAfter(t *testing.T) {
	rec := &recorder{}
	e := readyEngine(t, newMemStore(), Options{Emitter: rec})

	require.NoError(t, e.Set(testContext(t), domain.FieldHideLocation, true))

	committed := rec.committed()
	require.Len(t, committed, 1)
	assert.False(t, committed[0].Previous.HideLocation)
	assert.True(t, committed[0].Settings.HideLocation)
	assert.Empty(t, committed[0].CascadeOf)
}

func TestPublicProfile_FollowsPrivacyFlags(t *testing.T) {
	s := newMemStore()
	e := newEngine(t, s, Options{})

	_, ok := e.PublicProfile()
	assert.False(t, ok, "no projection before load")

	ctx := testContext(t)
	require.NoError(t, e.Initialize(ctx))

	p, ok := e.PublicProfile()
	require.True(t, ok)
	assert.Equal(t, "Ramesh Kumar", p.DisplayName)
	phone, shown := p.Phone.Value()
	assert.True(t, shown)
	assert.Equal(t, "+91 98765 43210", phone)
	assert.True(t, p.Earnings.IsHidden())

	require.NoError(t, e.Set(ctx, domain.FieldHidePhoneNumber, true))
	p, _ = e.PublicProfile()
	assert.True(t, p.Phone.IsHidden())

	require.NoError(t, e.Set(ctx, domain.FieldPhone, "+91 91111 11111"))
	p, _ = e.PublicProfile()
	assert.True(t, p.Phone.IsHidden(), "hidden regardless of stored value")

	require.NoError(t, e.Set(ctx, domain.FieldHidePhoneNumber, false))
	p, _ = e.PublicProfile()
	phone, shown = p.Phone.Value()
	assert.True(t, shown)
	assert.Equal(t, "+91 91111 11111", phone)
}

func TestPublicProfile_UsesInjectedFacts(t *testing.T) {
	facts := domain.ProfileFacts{Location: "Nashik", Earnings: "₹1.1L"}
	e := readyEngine(t, newMemStore(), Options{Facts: facts})

	require.NoError(t, e.Set(testContext(t), domain.FieldHideEarnings, false))
	p, _ := e.PublicProfile()
	loc, _ := p.Location.Value()
	earn, _ := p.Earnings.Value()
	assert.Equal(t, "Nashik", loc)
	assert.Equal(t, "₹1.1L", earn)
}

package watch

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-backing/internal/testmodels"
)

func TestWatcherOnKeyFiresOnlyForKey(t *testing.T) {
	user := testmodels.NewUser()
	w := mustWatch(t, user)

	var seen []any
	if err := w.OnKey("displayName", func(ctx ChangeContext) {
		seen = append(seen, ctx.New)
	}); err != nil {
		t.Fatalf("register rule: %v", err)
	}

	user.SetID("u-1")
	user.SetDisplayName(ptr("Ada"))
	user.SetDisplayName(nil)

	if len(seen) != 2 || seen[0] != "Ada" || seen[1] != nil {
		t.Fatalf("expected [Ada <nil>], got %v", seen)
	}
}

func TestWatcherBindsStoreValues(t *testing.T) {
	user := testmodels.NewUser()
	user.SetID("u-1")
	w := mustWatch(t, user)

	fired := 0
	expression := `key == "accountEnabled" && current == false && previous == true && values.id == "u-1"`
	if err := w.On(expression, func(ChangeContext) { fired++ }); err != nil {
		t.Fatalf("register rule: %v", err)
	}

	user.SetAccountEnabled(true)
	user.SetAccountEnabled(false)

	if fired != 1 {
		t.Fatalf("expected rule to fire once, fired %d times", fired)
	}
}

func TestWatcherSeesNestedModelsAsMaps(t *testing.T) {
	user := testmodels.NewUser()
	w := mustWatch(t, user)

	var got ChangeContext
	if err := w.On(`"manager" in changed && current.displayName == "Charles"`, func(ctx ChangeContext) {
		got = ctx
	}); err != nil {
		t.Fatalf("register rule: %v", err)
	}

	manager := testmodels.NewUser()
	manager.SetDisplayName(ptr("Charles"))
	user.SetManager(manager)

	if got.Key != "manager" {
		t.Fatalf("expected manager change to match, got %+v", got)
	}
	nested, ok := got.Values["manager"].(map[string]any)
	if !ok || nested["displayName"] != "Charles" {
		t.Fatalf("expected manager values as plain map, got %#v", got.Values["manager"])
	}
}

func TestWatcherLogsAndSkipsFailingRules(t *testing.T) {
	user := testmodels.NewUser()
	var events []LogEvent
	w := mustWatch(t, user, WithLogger(LoggerFunc(func(event LogEvent) {
		events = append(events, event)
	})))

	fired := false
	if err := w.On(`key`, func(ChangeContext) { fired = true }); err != nil {
		t.Fatalf("register rule: %v", err)
	}

	user.SetID("u-1")

	if fired {
		t.Fatalf("expected non-bool rule to be skipped")
	}
	if len(events) != 1 {
		t.Fatalf("expected one evaluation event, got %d", len(events))
	}
	if !errors.Is(events[0].Err, ErrNonBoolResult) {
		t.Fatalf("expected ErrNonBoolResult, got %v", events[0].Err)
	}
	var evalErr *EvaluationError
	if !errors.As(events[0].Err, &evalErr) || evalErr.Key != "id" || evalErr.Engine != "expr" {
		t.Fatalf("expected evaluation metadata, got %#v", events[0].Err)
	}
}

func TestWatcherRejectsInvalidRules(t *testing.T) {
	w := mustWatch(t, testmodels.NewUser())

	if err := w.On(`key ==`, func(ChangeContext) {}); err == nil {
		t.Fatalf("expected compile error")
	}
	if err := w.On("", func(ChangeContext) {}); !errors.Is(err, ErrEmptyExpression) {
		t.Fatalf("expected ErrEmptyExpression, got %v", err)
	}
	if err := w.On(`true`, nil); !errors.Is(err, ErrNilHandler) {
		t.Fatalf("expected ErrNilHandler, got %v", err)
	}
}

func TestWatcherCloseStopsDispatch(t *testing.T) {
	user := testmodels.NewUser()
	w := mustWatch(t, user)

	fired := 0
	if err := w.On(`true`, func(ChangeContext) { fired++ }); err != nil {
		t.Fatalf("register rule: %v", err)
	}
	user.SetID("u-1")
	w.Close()
	user.SetID("u-2")

	if fired != 1 {
		t.Fatalf("expected one dispatch before close, got %d", fired)
	}
	if err := w.On(`true`, func(ChangeContext) {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestWatcherCustomFunctionsAndArgs(t *testing.T) {
	user := testmodels.NewUser()
	w := mustWatch(t, user,
		WithArgs(map[string]any{"tenant": "acme"}),
		WithCustomFunction("suffix", func(args ...any) (any, error) {
			value, _ := args[0].(string)
			want, _ := args[1].(string)
			return strings.HasSuffix(value, want), nil
		}),
	)

	fired := 0
	if err := w.On(`key == "id" && suffix(current, "@" + args.tenant)`, func(ChangeContext) { fired++ }); err != nil {
		t.Fatalf("register rule: %v", err)
	}

	user.SetID("ada@acme")
	user.SetID("ada@other")

	if fired != 1 {
		t.Fatalf("expected one match, got %d", fired)
	}
}

func TestWatcherUsesClock(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	user := testmodels.NewUser()
	w := mustWatch(t, user, WithClock(func() time.Time { return fixed }))

	var got time.Time
	if err := w.On(`true`, func(ctx ChangeContext) { got = *ctx.Now }); err != nil {
		t.Fatalf("register rule: %v", err)
	}
	user.SetID("u-1")

	if !got.Equal(fixed) {
		t.Fatalf("expected %v, got %v", fixed, got)
	}
}

func TestWatcherSharesProgramCache(t *testing.T) {
	cache := NewMapCache()
	w := mustWatch(t, testmodels.NewUser(), WithProgramCache(cache))

	for i := 0; i < 3; i++ {
		if err := w.On(`key == "id"`, func(ChangeContext) {}); err != nil {
			t.Fatalf("register rule: %v", err)
		}
	}
	if cache.Len() != 1 {
		t.Fatalf("expected one cached program, got %d", cache.Len())
	}
}

func TestWatcherEvaluate(t *testing.T) {
	user := testmodels.NewUser()
	user.SetID("u-1")
	w := mustWatch(t, user)

	value, err := w.Evaluate(`values.id`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if value != "u-1" {
		t.Fatalf("expected u-1, got %v", value)
	}
}

func TestWatcherHandlesSelfReferencingModels(t *testing.T) {
	user := testmodels.NewUser()
	w := mustWatch(t, user)

	fired := false
	if err := w.OnKey("manager", func(ChangeContext) { fired = true }); err != nil {
		t.Fatalf("register rule: %v", err)
	}
	user.SetManager(user)

	if !fired {
		t.Fatalf("expected rule to fire for self reference")
	}
}

func TestWatcherWithCELEvaluator(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("upper", func(args ...any) (any, error) {
		value, _ := args[0].(string)
		return strings.ToUpper(value), nil
	}); err != nil {
		t.Fatalf("register function: %v", err)
	}

	user := testmodels.NewUser()
	w := mustWatch(t, user, WithEvaluator(NewCELEvaluator(CELWithFunctionRegistry(registry))))
	if w.Engine() != "cel" {
		t.Fatalf("expected cel engine, got %q", w.Engine())
	}

	fired := 0
	if err := w.On(`key == "displayName" && call("upper", [current]) == "ADA"`, func(ChangeContext) { fired++ }); err != nil {
		t.Fatalf("register rule: %v", err)
	}
	if err := w.On(`key == "accountEnabled" && current == true && "accountEnabled" in changed`, func(ChangeContext) { fired++ }); err != nil {
		t.Fatalf("register rule: %v", err)
	}

	user.SetDisplayName(ptr("ada"))
	user.SetDisplayName(ptr("bob"))
	user.SetAccountEnabled(true)

	if fired != 2 {
		t.Fatalf("expected two matches, got %d", fired)
	}
}

func TestWatchRejectsNilStore(t *testing.T) {
	if _, err := Watch(nil); err == nil {
		t.Fatalf("expected error for nil store")
	}
}

func mustWatch(t *testing.T, user *testmodels.User, opts ...Option) *Watcher {
	t.Helper()
	w, err := Watch(user.BackingStore(), opts...)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	return w
}

func ptr[T any](value T) *T {
	return &value
}

package services

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/somatic/internal/adapters/clock"
	"github.com/xvierd/somatic/internal/domain"
)

const testDuration = 20

func newTestController(t *testing.T) (*FlowController, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake()
	c, err := NewFlowController(clk, domain.DefaultSessionConfig(testDuration), log.New(io.Discard))
	require.NoError(t, err)
	return c, clk
}

func enterPlayer(t *testing.T, c *FlowController, mood domain.Mood) {
	t.Helper()
	require.NoError(t, c.SelectMood(mood))
}

func TestNewFlowController_RequiresDuration(t *testing.T) {
	_, err := NewFlowController(clock.NewFake(), domain.DefaultSessionConfig(0), nil)
	assert.ErrorIs(t, err, domain.ErrDurationNotSet)
}

func TestFlowController_StartsOnCheckIn(t *testing.T) {
	c, _ := newTestController(t)
	snap := c.Snapshot()
	assert.Equal(t, domain.ScreenCheckIn, snap.Screen)
	assert.Nil(t, snap.Player)
	assert.Equal(t, domain.PhaseNone, snap.Phase)
}

func TestFlowController_SelectMoodYieldsFreshPlayer(t *testing.T) {
	for _, style := range domain.Moods() {
		t.Run(string(style.ID), func(t *testing.T) {
			c, _ := newTestController(t)
			enterPlayer(t, c, style.ID)

			snap := c.Snapshot()
			require.Equal(t, domain.ScreenPlayer, snap.Screen)
			require.NotNil(t, snap.Player)
			assert.Equal(t, style.ID, snap.Player.Mood.ID)
			assert.False(t, snap.Player.IsPlaying)
			assert.Equal(t, 50, snap.Player.Intensity)
			assert.Equal(t, 0, snap.Player.ElapsedSeconds)
			assert.NotEmpty(t, snap.Player.ID)
		})
	}
}

func TestFlowController_UnknownMoodRefused(t *testing.T) {
	c, clk := newTestController(t)

	err := c.SelectMood("elated")
	var unknown *domain.UnknownMoodError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "elated", unknown.ID)
	assert.ErrorIs(t, err, domain.ErrUnknownMood)

	assert.Equal(t, domain.ScreenCheckIn, c.Screen())
	assert.Equal(t, 0, clk.Pending())
}

func TestFlowController_EventsOnWrongScreen(t *testing.T) {
	c, _ := newTestController(t)

	assert.ErrorIs(t, c.TogglePlay(), domain.ErrInvalidTransition)
	assert.ErrorIs(t, c.SetIntensity(10), domain.ErrInvalidTransition)
	assert.ErrorIs(t, c.AdjustIntensity(5), domain.ErrInvalidTransition)
	assert.ErrorIs(t, c.Complete(), domain.ErrInvalidTransition)
	assert.ErrorIs(t, c.Tap(), domain.ErrInvalidTransition)
	assert.ErrorIs(t, c.Dismiss(), domain.ErrInvalidTransition)

	enterPlayer(t, c, domain.MoodHeavy)
	assert.ErrorIs(t, c.SelectMood(domain.MoodAnxious), domain.ErrInvalidTransition)
	assert.ErrorIs(t, c.Dismiss(), domain.ErrInvalidTransition)
	assert.Equal(t, domain.MoodHeavy, c.Snapshot().Player.Mood.ID)
}

func TestFlowController_TogglePlayStartsAndStopsTimer(t *testing.T) {
	c, clk := newTestController(t)
	enterPlayer(t, c, domain.MoodAnxious)

	require.NoError(t, c.TogglePlay())
	assert.True(t, c.Snapshot().Player.IsPlaying)
	assert.Equal(t, 1, clk.Pending(), "exactly one tick source")

	require.NoError(t, c.TogglePlay())
	assert.False(t, c.Snapshot().Player.IsPlaying)
	assert.Equal(t, 0, clk.Pending())

	for i := 0; i < 7; i++ {
		require.NoError(t, c.TogglePlay())
	}
	assert.True(t, c.Snapshot().Player.IsPlaying)
	assert.Equal(t, 1, clk.Pending(), "repeated toggles never overlap tick streams")
}

func TestFlowController_ElapsedOnlyWhilePlaying(t *testing.T) {
	c, clk := newTestController(t)
	enterPlayer(t, c, domain.MoodChaotic)

	clk.Advance(5 * time.Second)
	assert.Equal(t, 0, c.Snapshot().Player.ElapsedSeconds)

	require.NoError(t, c.TogglePlay())
	clk.Advance(3 * time.Second)
	assert.Equal(t, 3, c.Snapshot().Player.ElapsedSeconds)

	require.NoError(t, c.TogglePlay())
	clk.Advance(10 * time.Second)
	assert.Equal(t, 3, c.Snapshot().Player.ElapsedSeconds)

	require.NoError(t, c.TogglePlay())
	clk.Advance(4 * time.Second)
	assert.Equal(t, 7, c.Snapshot().Player.ElapsedSeconds)
}

func TestFlowController_ElapsedTicksAreSequential(t *testing.T) {
	c, clk := newTestController(t)
	var seen []int
	c.Subscribe(func(s domain.Snapshot) {
		if s.Player != nil && s.Player.IsPlaying {
			if n := len(seen); n == 0 || seen[n-1] != s.Player.ElapsedSeconds {
				seen = append(seen, s.Player.ElapsedSeconds)
			}
		}
	})
	enterPlayer(t, c, domain.MoodHeavy)

	require.NoError(t, c.TogglePlay())
	clk.Advance(2 * time.Second)
	require.NoError(t, c.TogglePlay())
	clk.Advance(1500 * time.Millisecond)
	require.NoError(t, c.TogglePlay())
	clk.Advance(3 * time.Second)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, seen)
}

func TestFlowController_IntensityClampAndIndependence(t *testing.T) {
	tests := []struct {
		name string
		set  int
		want int
	}{
		{"in range", 73, 73},
		{"zero", 0, 0},
		{"max", 100, 100},
		{"below range", -20, 0},
		{"above range", 250, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clk := newTestController(t)
			enterPlayer(t, c, domain.MoodHeavy)
			require.NoError(t, c.TogglePlay())
			clk.Advance(2 * time.Second)

			require.NoError(t, c.SetIntensity(tt.set))

			snap := c.Snapshot()
			assert.Equal(t, tt.want, snap.Player.Intensity)
			assert.True(t, snap.Player.IsPlaying)
			assert.Equal(t, 2, snap.Player.ElapsedSeconds)
			assert.Equal(t, 1, clk.Pending())
			assert.InDelta(t, float64(tt.want)/100, snap.Drive(), 1e-9)
		})
	}
}

func TestFlowController_AdjustIntensity(t *testing.T) {
	c, _ := newTestController(t)
	enterPlayer(t, c, domain.MoodHeavy)

	require.NoError(t, c.AdjustIntensity(30))
	assert.Equal(t, 80, c.Snapshot().Player.Intensity)
	require.NoError(t, c.AdjustIntensity(30))
	assert.Equal(t, 100, c.Snapshot().Player.Intensity)
	require.NoError(t, c.AdjustIntensity(-150))
	assert.Equal(t, 0, c.Snapshot().Player.Intensity)
}

func TestFlowController_CompletionForcesPauseThenAfterglowAfterGrace(t *testing.T) {
	c, clk := newTestController(t)
	var completed []domain.Mood
	c.SetOnSessionComplete(func(m domain.MoodStyle) { completed = append(completed, m.ID) })
	enterPlayer(t, c, domain.MoodHeavy)

	require.NoError(t, c.TogglePlay())
	clk.Advance(testDuration * time.Second)

	snap := c.Snapshot()
	assert.Equal(t, domain.ScreenPlayer, snap.Screen, "transition is deferred by the grace delay")
	assert.False(t, snap.Player.IsPlaying)
	assert.True(t, snap.Player.Completed)
	assert.Equal(t, testDuration, snap.Player.ElapsedSeconds)
	assert.ErrorIs(t, c.TogglePlay(), domain.ErrSessionCompleted)

	clk.Advance(999 * time.Millisecond)
	assert.Equal(t, domain.ScreenPlayer, c.Screen())

	clk.Advance(time.Millisecond)
	assert.Equal(t, domain.ScreenAfterglow, c.Screen())
	assert.Equal(t, domain.PhaseIntro, c.Snapshot().Phase)
	assert.Equal(t, []domain.Mood{domain.MoodHeavy}, completed)
}

func TestFlowController_CompletionTransitionsExactlyOnce(t *testing.T) {
	c, clk := newTestController(t)
	transitions := 0
	last := domain.ScreenCheckIn
	c.Subscribe(func(s domain.Snapshot) {
		if s.Screen == domain.ScreenAfterglow && last != domain.ScreenAfterglow {
			transitions++
		}
		last = s.Screen
	})
	enterPlayer(t, c, domain.MoodAnxious)
	require.NoError(t, c.TogglePlay())

	clk.Advance(testDuration * time.Second)
	// Stray callbacks a late tick source might still deliver.
	c.handleTimerComplete()
	c.handleTick(testDuration + 1)
	assert.Equal(t, testDuration, c.Snapshot().Player.ElapsedSeconds)
	clk.Advance(2 * time.Second)
	c.handleTimerComplete()

	assert.Equal(t, 1, transitions)
	assert.Equal(t, 1, c.Snapshot().SessionsComplete)
}

func TestFlowController_SkipIsImmediate(t *testing.T) {
	tests := []struct {
		name    string
		play    bool
		advance time.Duration
	}{
		{"paused at zero", false, 0},
		{"playing mid-session", true, 7 * time.Second},
		{"during grace delay", true, testDuration * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clk := newTestController(t)
			notified := 0
			c.SetOnSessionComplete(func(domain.MoodStyle) { notified++ })
			enterPlayer(t, c, domain.MoodChaotic)
			if tt.play {
				require.NoError(t, c.TogglePlay())
			}
			clk.Advance(tt.advance)

			require.NoError(t, c.Complete())
			assert.Equal(t, domain.ScreenAfterglow, c.Screen())
			assert.False(t, c.Snapshot().Player.IsPlaying)

			// Only the afterglow's own timers remain.
			clk.Advance(4 * time.Second)
			assert.Equal(t, domain.ScreenAfterglow, c.Screen())
			assert.Equal(t, domain.PhaseAffirmation, c.Snapshot().Phase)
			assert.Equal(t, 0, notified, "skip does not count as a natural completion")
		})
	}
}

func TestFlowController_AfterglowAutoDismiss(t *testing.T) {
	c, clk := newTestController(t)
	var phases []domain.AfterglowPhase
	c.Subscribe(func(s domain.Snapshot) {
		if s.Screen == domain.ScreenAfterglow {
			if n := len(phases); n == 0 || phases[n-1] != s.Phase {
				phases = append(phases, s.Phase)
			}
		}
	})
	enterPlayer(t, c, domain.MoodHeavy)
	require.NoError(t, c.Complete())

	clk.Advance(7999 * time.Millisecond)
	assert.Equal(t, domain.ScreenAfterglow, c.Screen())

	clk.Advance(time.Millisecond)
	assert.Equal(t, domain.ScreenCheckIn, c.Screen())
	assert.Nil(t, c.Snapshot().Player)
	assert.Equal(t, []domain.AfterglowPhase{domain.PhaseIntro, domain.PhasePrompt, domain.PhaseAffirmation}, phases)
	assert.Equal(t, 0, clk.Pending())
}

func TestFlowController_TapDismissesAndCancelsTimers(t *testing.T) {
	c, clk := newTestController(t)
	enterPlayer(t, c, domain.MoodHeavy)
	require.NoError(t, c.Complete())
	clk.Advance(3 * time.Second)

	changes := 0
	c.Subscribe(func(domain.Snapshot) { changes++ })

	require.NoError(t, c.Tap())
	assert.Equal(t, domain.ScreenCheckIn, c.Screen())
	assert.Equal(t, 0, clk.Pending())

	changesAtDismiss := changes
	clk.Advance(30 * time.Second)
	assert.Equal(t, changesAtDismiss, changes, "no callback may fire after dismissal")
	assert.Equal(t, domain.ScreenCheckIn, c.Screen())
}

func TestFlowController_NewSessionDoesNotInheritState(t *testing.T) {
	c, clk := newTestController(t)
	enterPlayer(t, c, domain.MoodHeavy)
	require.NoError(t, c.SetIntensity(90))
	require.NoError(t, c.TogglePlay())
	clk.Advance(6 * time.Second)
	firstID := c.Snapshot().Player.ID

	require.NoError(t, c.Complete())
	require.NoError(t, c.Dismiss())

	enterPlayer(t, c, domain.MoodAnxious)
	snap := c.Snapshot()
	assert.Equal(t, domain.MoodAnxious, snap.Player.Mood.ID)
	assert.Equal(t, 50, snap.Player.Intensity)
	assert.Equal(t, 0, snap.Player.ElapsedSeconds)
	assert.False(t, snap.Player.IsPlaying)
	assert.False(t, snap.Player.Completed)
	assert.NotEqual(t, firstID, snap.Player.ID)

	clk.Advance(30 * time.Second)
	assert.Equal(t, 0, c.Snapshot().Player.ElapsedSeconds, "old timers must not touch the new session")
}

func TestFlowController_StaleGraceCallbackIgnored(t *testing.T) {
	c, clk := newTestController(t)
	enterPlayer(t, c, domain.MoodHeavy)
	require.NoError(t, c.TogglePlay())
	clk.Advance(testDuration * time.Second)

	// Skip during the grace window, then come back around to a new session.
	require.NoError(t, c.Complete())
	require.NoError(t, c.Tap())
	enterPlayer(t, c, domain.MoodChaotic)

	clk.Advance(5 * time.Second)
	assert.Equal(t, domain.ScreenPlayer, c.Screen())
	assert.Equal(t, domain.MoodChaotic, c.Snapshot().Player.Mood.ID)
}

func TestFlowController_SnapshotIsACopy(t *testing.T) {
	c, _ := newTestController(t)
	enterPlayer(t, c, domain.MoodHeavy)

	snap := c.Snapshot()
	snap.Player.Intensity = 3
	snap.Player.IsPlaying = true

	again := c.Snapshot()
	assert.Equal(t, 50, again.Player.Intensity)
	assert.False(t, again.Player.IsPlaying)
}

func TestFlowController_Close(t *testing.T) {
	c, clk := newTestController(t)
	enterPlayer(t, c, domain.MoodHeavy)
	require.NoError(t, c.TogglePlay())
	clk.Advance(time.Second)

	c.Close()
	assert.Equal(t, 0, clk.Pending())
	clk.Advance(5 * time.Second)
	assert.Equal(t, 1, c.Snapshot().Player.ElapsedSeconds)
}

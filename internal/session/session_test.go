package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bookmemo/internal/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

type recordingNavigator struct {
	mu        sync.Mutex
	redirects []Page
}

func (n *recordingNavigator) Redirect(page Page) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirects = append(n.redirects, page)
}

func (n *recordingNavigator) pages() []Page {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Page(nil), n.redirects...)
}

func TestGate_Check(t *testing.T) {
	tests := []struct {
		name     string
		loggedIn bool
		err      error
		want     bool
	}{
		{name: "logged in", loggedIn: true, want: true},
		{name: "logged out", loggedIn: false, want: false},
		{name: "transport failure fails closed", err: errors.New("dial tcp: refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			prober := mocks.NewMockSessionProber(ctrl)
			prober.EXPECT().CheckSession(gomock.Any()).Return(tt.loggedIn, tt.err)

			g := NewGate(prober, nil)

			assert.Equal(t, tt.want, g.Check(context.Background()))
		})
	}
}

func TestGate_Guard(t *testing.T) {
	t.Run("public pages never probe", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		prober := mocks.NewMockSessionProber(ctrl)
		nav := &recordingNavigator{}
		g := NewGate(prober, nav)

		for _, page := range []Page{PageTop, PageLogin, PageCreateAccount} {
			assert.True(t, g.Guard(context.Background(), page), page)
		}
		assert.Empty(t, nav.redirects)
	})

	t.Run("protected page without session redirects to login", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		prober := mocks.NewMockSessionProber(ctrl)
		prober.EXPECT().CheckSession(gomock.Any()).Return(false, nil)
		nav := &recordingNavigator{}
		g := NewGate(prober, nav)

		assert.False(t, g.Guard(context.Background(), PageLibrary))
		assert.Equal(t, []Page{PageLogin}, nav.redirects)
	})

	t.Run("protected page with session stays", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		prober := mocks.NewMockSessionProber(ctrl)
		prober.EXPECT().CheckSession(gomock.Any()).Return(true, nil)
		nav := &recordingNavigator{}
		g := NewGate(prober, nav)

		assert.True(t, g.Guard(context.Background(), PageLibrary))
		assert.Empty(t, nav.redirects)
	})

	t.Run("probe error redirects", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		prober := mocks.NewMockSessionProber(ctrl)
		prober.EXPECT().CheckSession(gomock.Any()).Return(false, errors.New("boom"))
		nav := &recordingNavigator{}
		g := NewGate(prober, nav)

		assert.False(t, g.Guard(context.Background(), Page("/anything")))
		assert.Equal(t, []Page{PageLogin}, nav.redirects)
	})
}

func TestProvider_Navigate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	prober := mocks.NewMockSessionProber(ctrl)
	var redirected []Page
	p := NewProvider(NewGate(prober, NavigatorFunc(func(page Page) { redirected = append(redirected, page) })))

	assert.Equal(t, StatusUnknown, p.Status())

	assert.True(t, p.Navigate(context.Background(), PageTop))
	assert.Equal(t, StatusUnknown, p.Status())
	assert.Equal(t, 0, p.Probes())

	gomock.InOrder(
		prober.EXPECT().CheckSession(gomock.Any()).Return(true, nil),
		prober.EXPECT().CheckSession(gomock.Any()).Return(false, nil),
	)

	assert.True(t, p.Navigate(context.Background(), PageLibrary))
	assert.True(t, p.LoggedIn())
	assert.Equal(t, PageLibrary, p.Page())
	assert.Equal(t, 1, p.Probes())

	assert.False(t, p.Navigate(context.Background(), PageLibrary))
	assert.False(t, p.LoggedIn())
	assert.Equal(t, StatusLoggedOut, p.Status())
	assert.Equal(t, 2, p.Probes(), "one probe per navigation")
	assert.Equal(t, []Page{PageLogin}, redirected)
}

func TestProvider_LatestNavigationWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	prober := mocks.NewMockSessionProber(ctrl)
	nav := &recordingNavigator{}
	p := NewProvider(NewGate(prober, nav))

	entered := make(chan struct{})
	release := make(chan struct{})
	gomock.InOrder(
		prober.EXPECT().CheckSession(gomock.Any()).DoAndReturn(func(context.Context) (bool, error) {
			close(entered)
			<-release
			return false, nil
		}),
		prober.EXPECT().CheckSession(gomock.Any()).Return(true, nil),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Navigate(context.Background(), PageLibrary)
	}()
	<-entered

	assert.True(t, p.Navigate(context.Background(), PageLibrary))
	close(release)
	<-done

	assert.True(t, p.LoggedIn(), "stale probe result is ignored")
	assert.Empty(t, nav.pages(), "stale probe result does not redirect")
}

func TestProvider_StaleSuccessKeepsLatestRedirect(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	prober := mocks.NewMockSessionProber(ctrl)
	nav := &recordingNavigator{}
	p := NewProvider(NewGate(prober, nav))

	entered := make(chan struct{})
	release := make(chan struct{})
	gomock.InOrder(
		prober.EXPECT().CheckSession(gomock.Any()).DoAndReturn(func(context.Context) (bool, error) {
			close(entered)
			<-release
			return true, nil
		}),
		prober.EXPECT().CheckSession(gomock.Any()).Return(false, nil),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Navigate(context.Background(), PageLibrary)
	}()
	<-entered

	assert.False(t, p.Navigate(context.Background(), PageLibrary))
	close(release)
	<-done

	assert.Equal(t, StatusLoggedOut, p.Status())
	assert.Equal(t, []Page{PageLogin}, nav.pages())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "logged_in", StatusLoggedIn.String())
	assert.Equal(t, "logged_out", StatusLoggedOut.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}

package pipeline

import "github.com/evanwboyle/roboscore/pkg/gen"

// SYNC-WATCHER-CHANNEL-SIZE
const WatcherChannelSize = 100

// AddWatcher registers to receive every published score state
func (s *Session) AddWatcher() chan *ScoreState {
	s.watchersLock.Lock()
	defer s.watchersLock.Unlock()
	ch := make(chan *ScoreState, WatcherChannelSize)
	s.watchers = append(s.watchers, ch)
	return ch
}

// RemoveWatcher unregisters a channel returned by AddWatcher
func (s *Session) RemoveWatcher(ch chan *ScoreState) {
	s.watchersLock.Lock()
	defer s.watchersLock.Unlock()
	for i, w := range s.watchers {
		if w == ch {
			s.watchers = gen.DeleteFromSliceUnordered(s.watchers, i)
			return
		}
	}
	s.Log.Warnf("Session.RemoveWatcher failed to find channel")
}

func (s *Session) sendToWatchers(state *ScoreState) {
	s.watchersLock.Lock()
	for _, ch := range s.watchers {
		// SYNC-WATCHER-CHANNEL-SIZE
		if len(ch) >= cap(ch)*9/10 {
			// A stalled watcher must not stall the pipeline, so we drop states
			s.Log.Warnf("Score state watcher is falling behind. I am going to drop states.")
		} else {
			ch <- state
		}
	}
	s.watchersLock.Unlock()
}

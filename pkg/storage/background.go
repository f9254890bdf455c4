package storage

import (
	"runtime"
	"time"
)

// Stats returns table and memory usage statistics
func (se *StorageEngine) Stats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	documents := 0
	names := se.Tables()
	for _, name := range names {
		if n, err := se.Count(name); err == nil {
			documents += n
		}
	}

	return map[string]interface{}{
		"alloc_mb":       m.Alloc / 1024 / 1024,
		"sys_mb":         m.Sys / 1024 / 1024,
		"num_goroutines": runtime.NumGoroutine(),
		"tables":         len(names),
		"documents":      documents,
		"dirty":          se.Dirty(),
	}
}

// StartBackgroundWorkers starts the background snapshot worker, when
// background saves and a snapshot file are configured
func (se *StorageEngine) StartBackgroundWorkers() {
	if !se.backgroundSave || se.snapshotFile == "" {
		return
	}

	se.backgroundWg.Add(1)
	go func() {
		defer se.backgroundWg.Done()
		ticker := time.NewTicker(se.saveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				se.saveIfDirty()
			case <-se.stopChan:
				return
			}
		}
	}()
}

// StopBackgroundWorkers stops background workers and waits for them
func (se *StorageEngine) StopBackgroundWorkers() {
	se.stopOnce.Do(func() { close(se.stopChan) })
	se.backgroundWg.Wait()
}

func (se *StorageEngine) saveIfDirty() {
	if !se.Dirty() {
		return
	}
	if err := se.SaveToFile(se.snapshotFile); err != nil {
		se.logger.WithError(err).WithField("file", se.snapshotFile).Error("background save failed")
	}
}

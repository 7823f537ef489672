package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchUserConfig watches the config file and invokes onChange with the
// freshly loaded config whenever it is rewritten. The returned stop
// function releases the watcher. Errors while reloading keep the
// previous config; onError is optional.
func WatchUserConfig(onChange func(*UserConfig), onError func(error)) (func(), error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors replace the file on save, which drops
	// a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(configPath) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				cfg, err := LoadUserConfig()
				if err != nil {
					if onError != nil {
						onError(err)
					}
					continue
				}
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if onError != nil {
					onError(err)
				}
			}
		}
	}()

	return func() { watcher.Close() }, nil
}

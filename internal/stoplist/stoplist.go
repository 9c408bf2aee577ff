// Package stoplist manages the deny-list of capitalized words that the
// permissive name pattern must never treat as part of a personal name.
//
// The list is data, not code: it ships with a built-in default set and
// can be replaced by a YAML file that is hot-reloaded on change, so
// detection tuning never requires a redeploy.
package stoplist

import (
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"dossier-pseudonymizer/internal/logger"
)

// Default returns the built-in deny-list: section headers, compass
// directions, large city names and department words that routinely
// appear capitalized next to other capitalized words in dossiers.
func Default() []string {
	return []string{
		"Adres", "Telefoon", "Email", "Datum", "Betreft", "Locatie",
		"Oost", "West", "Noord", "Zuid",
		"Amsterdam", "Rotterdam", "Utrecht",
		"Praktijk", "Polikliniek", "Afdeling", "Orthopedie",
		"Indicatie", "Conclusie", "Bevindingen", "Beleid", "Plan",
		"Subjectief", "Objectief",
		"Consult", "Brief", "Verslag", "Document", "Intake", "Categorie",
	}
}

// file is the on-disk YAML shape:
//
//	words:
//	  - Fysiotherapie
//	  - Hoofdpijn
type file struct {
	Words []string `yaml:"words"`
}

// Load reads a stoplist YAML file. Blank entries are dropped; an empty
// resulting list is allowed and disables the word filter entirely.
func Load(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stoplist: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse stoplist %s: %w", path, err)
	}
	words := make([]string, 0, len(f.Words))
	for _, w := range f.Words {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words, nil
}

// Watcher hot-reloads a stoplist file. Close stops the watch goroutine.
type Watcher struct {
	fsw *fsnotify.Watcher
}

// Watch loads path-on-change and hands each successfully parsed word
// list to onReload. A file that fails to parse keeps the previous list
// active; the failure is logged and nothing else happens.
func Watch(path string, log *logger.Logger, onReload func([]string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("stoplist watcher: %w", err)
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	go func() {
		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
					continue
				}
				words, err := Load(path)
				if err != nil {
					if log != nil {
						log.Warnf("stoplist_reload", "%v, keeping previous list", err)
					}
					continue
				}
				if log != nil {
					log.Infof("stoplist_reload", "%d words loaded from %s", len(words), path)
				}
				onReload(words)
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				if log != nil {
					log.Warnf("stoplist_watch", "%v", err)
				}
			}
		}
	}()

	return &Watcher{fsw: fsw}, nil
}

// Close stops watching. Safe to call once.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

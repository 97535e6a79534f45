package config

import (
	"encoding/json"
	"fmt"
	"os"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/siyuan-infoblox/ts-imports-group/pkg/errors"
)

type packageManifest struct {
	Dependencies     *orderedmap.OrderedMap[string, any] `json:"dependencies"`
	DevDependencies  *orderedmap.OrderedMap[string, any] `json:"devDependencies"`
	PeerDependencies *orderedmap.OrderedMap[string, any] `json:"peerDependencies"`
}

// LoadDependencies returns the package names declared in a package.json:
// dependencies, then devDependencies, then peerDependencies, each in file order.
// A name listed in several sections is returned once.
func LoadDependencies(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", errors.ErrMsgFailedToReadConfig, path, err)
	}

	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%s %s: %w", errors.ErrMsgFailedToParseConfig, path, err)
	}

	var (
		result []string
		seen   = make(map[string]bool)
	)
	for _, section := range []*orderedmap.OrderedMap[string, any]{
		manifest.Dependencies,
		manifest.DevDependencies,
		manifest.PeerDependencies,
	} {
		if section == nil {
			continue
		}
		for pair := section.Oldest(); pair != nil; pair = pair.Next() {
			if !seen[pair.Key] {
				seen[pair.Key] = true
				result = append(result, pair.Key)
			}
		}
	}
	return result, nil
}

package deploy

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// baseURLKey is the environment variable the Airflow webserver reads its
// externally visible address from.
const baseURLKey = "AIRFLOW__WEBSERVER__BASE_URL"

// SetWebserverBaseURL rewrites the compose document so the webserver
// advertises the instance's public address. The key is set in every
// service-level and extension-level environment block that already defines
// it, which covers both the anchored x-airflow-common layout of the
// upstream compose file and flat per-service layouts.
func SetWebserverBaseURL(doc []byte, host string, port int32) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(doc, &root); err != nil {
		return nil, fmt.Errorf("failed to parse compose file: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("compose file is empty")
	}

	url := fmt.Sprintf("http://%s:%d", host, port)
	if n := replaceEnvValue(root.Content[0], baseURLKey, url); n == 0 {
		return nil, fmt.Errorf("compose file defines no %s environment entry", baseURLKey)
	}

	out, err := yaml.Marshal(root.Content[0])
	if err != nil {
		return nil, fmt.Errorf("failed to serialize compose file: %w", err)
	}
	return out, nil
}

// replaceEnvValue walks the YAML tree and replaces the value of key inside
// every mapping named "environment". Both mapping-form (KEY: value) and
// list-form (KEY=value) environments are handled. Returns the number of
// replacements.
func replaceEnvValue(node *yaml.Node, key, value string) int {
	if node == nil {
		return 0
	}
	replaced := 0
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if k.Value == "environment" {
				replaced += setEnvEntry(v, key, value)
				continue
			}
			replaced += replaceEnvValue(v, key, value)
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			replaced += replaceEnvValue(item, key, value)
		}
	}
	return replaced
}

func setEnvEntry(env *yaml.Node, key, value string) int {
	replaced := 0
	switch env.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(env.Content); i += 2 {
			if env.Content[i].Value == key {
				env.Content[i+1].SetString(value)
				replaced++
			}
		}
	case yaml.SequenceNode:
		for _, item := range env.Content {
			if strings.HasPrefix(item.Value, key+"=") {
				item.SetString(key + "=" + value)
				replaced++
			}
		}
	}
	return replaced
}

package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "spout":
		return spoutTemplate, nil
	case "bolt":
		return boltTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const spoutTemplate = `name = "sentencespout"
log_level = "info"
max_frame_bytes = 8388608
forward_logs = true
# metrics_addr = "127.0.0.1:9464"
`

const boltTemplate = `name = "splitbolt"
log_level = "info"
max_frame_bytes = 8388608
forward_logs = true
auto_ack = true
# metrics_addr = "127.0.0.1:9465"
`

package git

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"github.com/quantmind-br/gitdown/internal/utils"
)

const headersKey = "headers"

// MergeOptions folds option layers into one map, later layers winning.
// Keys are lower-cased so `Checkout` replaces `checkout`. The headers entry
// is merged key by key with lower-cased names so a layer can add or replace
// a single header without dropping the others.
func MergeOptions(layers ...map[string]any) (map[string]any, error) {
	merged := map[string]any{}
	headers := map[string]any{}

	for _, layer := range layers {
		rest := make(map[string]any, len(layer))
		for k, v := range layer {
			key := strings.ToLower(k)
			if key != headersKey {
				rest[key] = v
				continue
			}
			if v == nil {
				continue
			}
			h, err := cast.ToStringMapStringE(v)
			if err != nil {
				return nil, fmt.Errorf("invalid %s option: %w", headersKey, err)
			}
			for name, value := range h {
				headers[strings.ToLower(name)] = value
			}
		}
		if err := mergo.Merge(&merged, rest, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge options: %w", err)
		}
	}

	if len(headers) > 0 {
		merged[headersKey] = headers
	}
	return merged, nil
}

// decodeOptions converts a merged options map into a typed options struct.
// Keys that match no field are reported at debug level and otherwise ignored.
func decodeOptions[T any](merged map[string]any, logger *utils.Logger) (T, error) {
	var out T
	var meta mapstructure.Metadata

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       fileModeHook,
		WeaklyTypedInput: true,
		Metadata:         &meta,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(merged); err != nil {
		return out, fmt.Errorf("decode options: %w", err)
	}

	if len(meta.Unused) > 0 {
		logger.Debug().Strs("keys", meta.Unused).Msg("Ignoring unknown options")
	}
	return out, nil
}

// fileModeHook reads string file modes as octal ("644", "0644", "0o644").
func fileModeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(os.FileMode(0)) || from.Kind() != reflect.String {
		return data, nil
	}

	s := strings.TrimSpace(reflect.ValueOf(data).String())
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0o"), "0O")
	if s == "" {
		return os.FileMode(0), nil
	}
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid file mode %q: %w", data, err)
	}
	return os.FileMode(n), nil
}

package value

import (
	"encoding/json"
	"strconv"

	"github.com/tidwall/sjson"
)

// domainKeys lists every key of each domain record's Get accessor, in a
// fixed order, so MarshalJSON can walk a record without reflection — the
// same enumerate-by-name approach the key-accessor protocol itself uses.
var domainKeys = map[Variant][]string{
	VariantManga: {"id", "cover", "title", "author", "artist",
		"description", "url", "categories", "status", "nsfw", "viewer"},
	VariantMangaResult: {"manga", "has_more"},
	VariantChapter: {"id", "title", "volume", "chapter", "date_uploaded",
		"scanlator", "url", "lang"},
	VariantPage:    {"index", "image_url", "base64", "text"},
	VariantFilter:  {"type", "name", "value"},
	VariantListing: {"name"},
	VariantDeepLink: {"manga", "chapter"},
}

// MarshalJSON renders v as wire JSON using sjson.SetRaw to assemble each
// level from its children's already-marshaled JSON, the same
// build-incrementally approach the CLI uses for displaying driver
// results without a generic map[string]interface{} intermediate.
func (v Value) MarshalJSON() ([]byte, error) {
	s, err := v.toJSON()
	return []byte(s), err
}

func (v Value) toJSON() (string, error) {
	switch v.variant {
	case VariantNull, VariantUnknown, VariantNode:
		return "null", nil
	case VariantInt:
		return strconv.FormatInt(v.i, 10), nil
	case VariantFloat, VariantDate:
		return strconv.FormatFloat(v.f, 'g', -1, 64), nil
	case VariantBool:
		return strconv.FormatBool(v.b), nil
	case VariantString:
		raw, err := json.Marshal(v.s)
		return string(raw), err
	case VariantArray:
		out := "[]"
		for i, elem := range v.arr {
			child, err := elem.toJSON()
			if err != nil {
				return "", err
			}
			out, err = sjson.SetRaw(out, strconv.Itoa(i), child)
			if err != nil {
				return "", err
			}
		}
		return out, nil
	case VariantObject:
		out := "{}"
		var err error
		for k, elem := range v.obj {
			child, cerr := elem.toJSON()
			if cerr != nil {
				return "", cerr
			}
			out, err = sjson.SetRaw(out, sjsonEscape(k), child)
			if err != nil {
				return "", err
			}
		}
		return out, nil
	default:
		return v.recordToJSON()
	}
}

// recordToJSON handles every domain-record variant uniformly by walking
// its fixed key list through the key-accessor protocol.
func (v Value) recordToJSON() (string, error) {
	keys := domainKeys[v.variant]
	out := "{}"
	for _, k := range keys {
		val, ok := v.Get(k)
		if !ok {
			continue
		}
		child, err := val.toJSON()
		if err != nil {
			return "", err
		}
		out, err = sjson.SetRaw(out, sjsonEscape(k), child)
		if err != nil {
			return "", err
		}
	}
	return out, nil
}

// sjsonEscape guards against path keys sjson would otherwise interpret as
// path syntax (".", "*", "?"); none of the ABI's own key names use these,
// but object keys are guest-controlled strings.
func sjsonEscape(key string) string {
	escaped := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '.' || c == '*' || c == '?' {
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, c)
	}
	return string(escaped)
}

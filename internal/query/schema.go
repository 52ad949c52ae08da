package query

import (
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"
)

// columnCache memoizes per-model column maps; models never change at
// runtime.
var (
	columnCache   = map[reflect.Type]map[string]string{}
	columnCacheMu sync.RWMutex
)

// columnsOf maps the JSON names a client may use in filters, sorts and
// projections to the model's database column names. Only scalar fields are
// exposed; relations and fields hidden from JSON (like password hashes)
// never become filterable.
func columnsOf(model interface{}) map[string]string {
	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	columnCacheMu.RLock()
	cached, ok := columnCache[t]
	columnCacheMu.RUnlock()
	if ok {
		return cached
	}

	cols := map[string]string{}
	collectColumns(t, "", cols)

	columnCacheMu.Lock()
	columnCache[t] = cols
	columnCacheMu.Unlock()
	return cols
}

func collectColumns(t reflect.Type, prefix string, cols map[string]string) {
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		gormTag := f.Tag.Get("gorm")
		if gormTag == "-" || strings.Contains(gormTag, "foreignKey") {
			continue
		}
		if f.Anonymous {
			collectColumns(f.Type, prefix, cols)
			continue
		}
		if strings.Contains(gormTag, "embedded") {
			embPrefix := prefix
			if j := strings.Index(gormTag, "embeddedPrefix:"); j >= 0 {
				p := gormTag[j+len("embeddedPrefix:"):]
				if k := strings.IndexByte(p, ';'); k >= 0 {
					p = p[:k]
				}
				embPrefix += p
			}
			collectColumns(f.Type, embPrefix, cols)
			continue
		}
		if !isScalar(f.Type) {
			continue
		}
		name := jsonName(f)
		if name == "" {
			continue
		}
		cols[name] = prefix + toSnake(f.Name)
	}
}

func isScalar(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Struct:
		return t == reflect.TypeOf(time.Time{})
	default:
		return false
	}
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "" {
		name = f.Name
	}
	return name
}

func toSnake(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

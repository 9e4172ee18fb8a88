package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestNewLocalizerResolvesLocale(t *testing.T) {
	assert.Equal(t, language.English, NewLocalizer("en").Tag())
	assert.Equal(t, language.Chinese, NewLocalizer("zh-CN").Tag())
	assert.Equal(t, language.Chinese, NewLocalizer("zh_CN").Tag())
	assert.Equal(t, language.English, NewLocalizer("fr").Tag())
	assert.Equal(t, language.English, NewLocalizer("").Tag())
}

func TestTranslations(t *testing.T) {
	en := NewLocalizer("en")
	zh := NewLocalizer("zh")

	assert.Equal(t, "Unable to load items", en.T("error.fetch_failed"))
	assert.Equal(t, "无法加载资源列表", zh.T("error.fetch_failed"))
	assert.Equal(t, "missing.id", en.T("missing.id"))
}

func TestPluralAndTemplate(t *testing.T) {
	en := NewLocalizer("en")
	assert.Equal(t, "1 item", en.TP("status.items", 1))
	assert.Equal(t, "3 items", en.TP("status.items", 3))
	assert.Equal(t, "3 个资源", NewLocalizer("zh").TP("status.items", 3))

	assert.Equal(t, "2 of 5 shown", en.TF("status.filtered", map[string]any{"Shown": 2, "Total": 5}))
}

func TestEveryMessageTranslated(t *testing.T) {
	ids := []string{
		"app.title", "status.loading", "status.never", "list.empty", "search.prompt",
		"sort.title", "action.title", "error.session_expired", "help.keys",
	}
	zh := NewLocalizer("zh")
	en := NewLocalizer("en")
	for _, id := range ids {
		assert.NotEqual(t, id, en.T(id), id)
		assert.NotEqual(t, en.T(id), zh.T(id), id)
	}
}

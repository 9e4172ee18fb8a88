package diagnostic

import (
	"errors"
	"net/http"

	"github.com/yourusername/console-landing/internal/datasource"
)

// GetRecommendedAction returns what the operator should try after a failed
// request against resource.
func GetRecommendedAction(err error, tokenExpiryOn400 bool, resource string) string {
	kind, _ := datasource.Classify(err, tokenExpiryOn400)
	switch kind {
	case datasource.FailureAborted:
		return ""
	case datasource.FailureSessionExpired:
		return "Log in to the console again and update console.session_cookie"
	}

	var fe *datasource.FetchError
	if !errors.As(err, &fe) {
		return "Check console.base_url and that the console is reachable"
	}

	switch {
	case fe.Status == http.StatusForbidden:
		return "Your account is not authorized to list " + resource + "; ask an administrator for access"
	case fe.Status == http.StatusNotFound:
		return "Check the endpoint configured for page " + resource
	case fe.Status == http.StatusBadRequest:
		return "Check console.csrf_token matches the current session"
	case fe.Status >= 500:
		return "The console backend failed; retry with r or check the console logs"
	default:
		return ""
	}
}

// GetRecommendedActionChinese returns the recommended action in Chinese
func GetRecommendedActionChinese(err error, tokenExpiryOn400 bool, resource string) string {
	kind, _ := datasource.Classify(err, tokenExpiryOn400)
	switch kind {
	case datasource.FailureAborted:
		return ""
	case datasource.FailureSessionExpired:
		return "请重新登录控制台并更新 console.session_cookie"
	}

	var fe *datasource.FetchError
	if !errors.As(err, &fe) {
		return "检查 console.base_url 以及控制台是否可达"
	}

	switch {
	case fe.Status == http.StatusForbidden:
		return "当前账号无权查看 " + resource + "，请联系管理员授权"
	case fe.Status == http.StatusNotFound:
		return "检查页面 " + resource + " 配置的 endpoint"
	case fe.Status == http.StatusBadRequest:
		return "检查 console.csrf_token 是否与当前会话匹配"
	case fe.Status >= 500:
		return "控制台后端出错，按 r 重试或查看控制台日志"
	default:
		return ""
	}
}

// GetFailurePriority returns a priority score for ordering failures
// (higher = more urgent)
func GetFailurePriority(kind datasource.FailureKind) int {
	switch kind {
	case datasource.FailureSessionExpired:
		return 100
	case datasource.FailureGeneric:
		return 50
	default:
		return 0
	}
}

package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconNotifySuccess = "" // nf-fa-check_circle
	IconNotifyError   = "" // nf-fa-times_circle
	IconNotifyWarning = "" // nf-fa-warning
	IconNotifyInfo    = "" // nf-fa-info_circle
)

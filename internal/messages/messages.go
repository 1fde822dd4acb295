// Package messages holds the user-facing strings of the CLI in English and
// Arabic, served through a golang.org/x/text message catalog.
package messages

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a localized message.
type Key string

const (
	FileRequired        Key = "file_required"
	FileMissing         Key = "file_missing"
	FileNotRegular      Key = "file_not_regular"
	FileTooLarge        Key = "file_too_large"
	FileNotVideo        Key = "file_not_video"
	URLRequired         Key = "url_required"
	URLInvalid          Key = "url_invalid"
	LanguageUnsupported Key = "language_unsupported"
	TaskIDRequired      Key = "task_id_required"

	Uploading     Key = "uploading"
	SubmittingURL Key = "submitting_url"
	JobStarted    Key = "job_started"
	Processing    Key = "processing"
	StallHint     Key = "stall_hint"
	PollRetrying  Key = "poll_retrying"
	Completed     Key = "completed"
	Saved         Key = "saved"
	Copied        Key = "copied"
	Warning       Key = "warning"
	RawFallback   Key = "raw_fallback"
	LockBusy      Key = "lock_busy"
	RetryHint     Key = "retry_hint"

	ErrValidation    Key = "err_validation"
	ErrTransport     Key = "err_transport"
	ErrApplication   Key = "err_application"
	ErrTimeout       Key = "err_timeout"
	ErrPollBudget    Key = "err_poll_budget"
	ErrConfiguration Key = "err_configuration"
	ErrCanceled      Key = "err_canceled"
	ErrUnknown       Key = "err_unknown"
)

var english = map[Key]string{
	FileRequired:        "No video file was given.",
	FileMissing:         "File %s does not exist.",
	FileNotRegular:      "%s is not a regular file.",
	FileTooLarge:        "File is too large (%s). The limit is %s.",
	FileNotVideo:        "%s is not a video file (detected %s).",
	URLRequired:         "Please provide a YouTube URL.",
	URLInvalid:          "Not a valid YouTube URL: %s",
	LanguageUnsupported: "Unsupported language %q.",
	TaskIDRequired:      "Please provide a task ID.",

	Uploading:     "Uploading %s",
	SubmittingURL: "Submitting YouTube video",
	JobStarted:    "Job %s started",
	Processing:    "Processing",
	StallHint:     "this may take a while",
	PollRetrying:  "Status check failed (%d in a row), retrying",
	Completed:     "Subtitles ready",
	Saved:         "Saved %s",
	Copied:        "Copied to clipboard",
	Warning:       "Warning: %s",
	RawFallback:   "No subtitle blocks found, showing raw text.",
	LockBusy:      "Another submission is already running (lock %s). Use --wait to queue behind it.",
	RetryHint:     "Run the command again to retry.",

	ErrValidation:    "Invalid input",
	ErrTransport:     "Could not reach the subtitle service",
	ErrApplication:   "The subtitle service reported an error",
	ErrTimeout:       "Processing took too long and was abandoned",
	ErrPollBudget:    "Lost contact with the subtitle service",
	ErrConfiguration: "Configuration error",
	ErrCanceled:      "Canceled",
	ErrUnknown:       "Unexpected error",
}

var arabic = map[Key]string{
	FileRequired:        "لم يتم تحديد ملف فيديو.",
	FileMissing:         "الملف %s غير موجود.",
	FileNotRegular:      "%s ليس ملفًا عاديًا.",
	FileTooLarge:        "حجم الملف كبير جدًا (%s). الحد الأقصى هو %s.",
	FileNotVideo:        "%s ليس ملف فيديو (النوع المكتشف %s).",
	URLRequired:         "يرجى تقديم رابط يوتيوب صالح.",
	URLInvalid:          "رابط يوتيوب غير صالح: %s",
	LanguageUnsupported: "اللغة %q غير مدعومة.",
	TaskIDRequired:      "يرجى تقديم معرف المهمة.",

	Uploading:     "جاري رفع %s",
	SubmittingURL: "جاري إرسال فيديو يوتيوب",
	JobStarted:    "بدأت المهمة %s",
	Processing:    "جاري المعالجة",
	StallHint:     "قد يستغرق هذا بعض الوقت",
	PollRetrying:  "فشل التحقق من الحالة (%d مرات متتالية)، جاري إعادة المحاولة",
	Completed:     "الترجمة جاهزة",
	Saved:         "تم الحفظ في %s",
	Copied:        "تم النسخ إلى الحافظة",
	Warning:       "تحذير: %s",
	RawFallback:   "لم يتم العثور على كتل ترجمة، يتم عرض النص الخام.",
	LockBusy:      "هناك عملية إرسال أخرى قيد التشغيل (القفل %s). استخدم --wait للانتظار.",
	RetryHint:     "أعد تشغيل الأمر للمحاولة مرة أخرى.",

	ErrValidation:    "مدخلات غير صالحة",
	ErrTransport:     "تعذر الاتصال بخدمة الترجمة",
	ErrApplication:   "أبلغت خدمة الترجمة عن خطأ",
	ErrTimeout:       "استغرقت المعالجة وقتًا طويلاً وتم إيقافها",
	ErrPollBudget:    "انقطع الاتصال بخدمة الترجمة",
	ErrConfiguration: "خطأ في الإعدادات",
	ErrCanceled:      "تم الإلغاء",
	ErrUnknown:       "خطأ غير متوقع",
}

var (
	arabicTag = language.Arabic
	supported = []language.Tag{language.English, arabicTag}
	matcher   = language.NewMatcher(supported)
	cat       = buildCatalog()
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range english {
		_ = b.SetString(language.English, string(key), text)
	}
	for key, text := range arabic {
		_ = b.SetString(arabicTag, string(key), text)
	}
	return b
}

// Printer formats messages for one locale.
type Printer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a printer for locale (a BCP 47 tag such as "en" or "ar-EG").
// Unknown locales fall back to English.
func New(locale string) *Printer {
	tag := language.English
	if parsed, err := language.Parse(strings.TrimSpace(locale)); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &Printer{tag: tag, printer: message.NewPrinter(tag, message.Catalog(cat))}
}

// Locale returns the resolved locale.
func (p *Printer) Locale() string {
	base, _ := p.tag.Base()
	return base.String()
}

// T formats the message for key with args.
func (p *Printer) T(key Key, args ...any) string {
	return p.printer.Sprintf(string(key), args...)
}

// Keys returns every defined key; used to check catalog completeness.
func Keys() []Key {
	keys := make([]Key, 0, len(english))
	for key := range english {
		keys = append(keys, key)
	}
	return keys
}

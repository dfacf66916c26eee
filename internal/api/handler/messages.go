package handler

// User-facing messages. Auth strings are shown verbatim by the Arabic site;
// admin and site strings are read by the dashboard and the marketing pages.
const (
	MsgSignupOK           = "تم إنشاء الحساب بنجاح! جارٍ تحويلك لتسجيل الدخول..."
	MsgSignupFailed       = "فشل التسجيل. يرجى المحاولة مرة أخرى."
	MsgCredentialsMissing = "البريد الإلكتروني وكلمة المرور مطلوبان"
	MsgInvalidEmail       = "البريد الإلكتروني غير صالح"
	MsgEmailRequired      = "البريد الإلكتروني مطلوب"
	MsgInvalidInput       = "البيانات المدخلة غير صالحة"
	MsgWeakPassword       = "يجب أن تكون كلمة المرور 8 أحرف على الأقل"
	MsgPasswordTooLong    = "كلمة المرور طويلة جداً"
	MsgEmailTaken         = "هذا البريد الإلكتروني مسجل مسبقاً"
	MsgInvalidCredentials = "البريد الإلكتروني أو كلمة المرور غير صحيحة"
	MsgLoginOK            = "تم تسجيل الدخول بنجاح"
	MsgLogoutOK           = "تم تسجيل الخروج بنجاح"
	MsgLogoutFailed       = "فشل تسجيل الخروج"
	MsgForgotOK           = "إذا كان هذا البريد موجودًا، ستتلقى رابط إعادة التعيين."
	MsgForgotFailed       = "فشل الطلب. يرجى المحاولة مرة أخرى."
	MsgResetMissing       = "الرمز وكلمة المرور مطلوبة"
	MsgResetWeakPassword  = "كلمة المرور يجب أن تكون 8 أحرف على الأقل"
	MsgInvalidResetToken  = "رمز غير صالح أو منتهي الصلاحية"
	MsgResetOK            = "تم إعادة تعيين كلمة المرور بنجاح. يمكنك الآن تسجيل الدخول."
	MsgResetFailed        = "فشلت إعادة التعيين"

	MsgAuthRequired     = "Authentication required"
	MsgAdminRequired    = "Admin access required"
	MsgUserNotFound     = "User not found"
	MsgInvalidRole      = `Invalid role. Must be "user" or "admin"`
	MsgSelfDelete       = "Cannot delete your own account"
	MsgSelfRoleChange   = "Cannot change your own role"
	MsgStatsFailed      = "Failed to fetch statistics"
	MsgUsersFailed      = "Failed to fetch users"
	MsgShipmentNotFound = "Shipment not found. Please check your tracking number."

	MsgTrackingRequired = "Tracking number is required"
	MsgQuoteFields      = "All fields are required"
	MsgContactFields    = "Name, email, and message are required"
	MsgContactEmail     = "Invalid email format"
	MsgContactOK        = "Thank you! We received your message and will contact you soon."
	MsgServerError      = "Server error. Please try again later."
)

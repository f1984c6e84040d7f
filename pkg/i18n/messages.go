package i18n

// DefaultMessages returns built-in translations for all supported locales.
// These can be overridden by loading JSON files from a directory.
func DefaultMessages() map[Locale]map[string]string {
	return map[Locale]map[string]string{
		LocaleEn: enMessages,
		LocaleAr: arMessages,
	}
}

var enMessages = map[string]string{
	// Common errors
	"error.not_found":         "The requested resource was not found",
	"error.unauthorized":      "Authentication required",
	"error.forbidden":         "Access denied",
	"error.bad_request":       "Bad request",
	"error.internal":          "Internal server error",
	"error.upstream":          "The service is temporarily unavailable",
	"error.too_many_requests": "Too many requests. Please try again later",
	"error.validation":        "Invalid input",

	// Toast titles
	"toast.title.success":    "Success!",
	"toast.title.error":      "Error",
	"toast.title.info":       "Info",
	"toast.title.warning":    "Warning",
	"toast.title.network":    "Connection Error",
	"toast.title.validation": "Validation Error",
	"toast.network_error":    "Unable to connect to the server. Please check your internet connection and try again.",

	// Feed
	"feed.load_failed": "Failed to load feed",

	// Posts
	"post.not_found":        "Post not found.",
	"post.load_failed":      "Network error.",
	"post.login_required":   "Please login to interact with posts",
	"post.interact_failed":  "Failed to update your reaction",
	"post.saved":            "Post saved",
	"post.unsaved":          "Post removed from saved",
	"post.save_failed":      "Failed to save post",
	"post.shared":           "Post shared",
	"post.share_failed":     "Failed to share post",
	"post.delete_success":   "Post deleted",
	"post.delete_failed":    "Failed to delete post",
	"post.delete_forbidden": "delete this post",
	"post.edit_forbidden":   "edit this post",
	"post.created":          "Post published",
	"post.create_failed":    "Failed to publish post",
	"post.updated":          "Post updated",
	"post.update_failed":    "Failed to update post",
	"post.invalid_title":    "Title is required and must be at most 200 characters",
	"post.invalid_content":  "Content is required",
	"post.invalid_category": "Unknown category",

	// Comments
	"comment.login_required": "Please login to comment",
	"comment.empty":          "Comment cannot be empty",
	"comment.too_long":       "Comment is too long",
	"comment.added":          "Comment added",
	"comment.failed":         "Failed to add comment",
	"comment.reply_failed":   "Failed to reply",
	"comment.parent_missing": "The comment you replied to no longer exists",

	// Communities
	"community.login_required": "Please login to join communities",
	"community.joined":         "Successfully joined %s!",
	"community.join_failed":    "Failed to join",
	"community.join_error":     "An error occurred while joining.",
	"community.load_failed":    "Failed to load community",

	// Profiles
	"profession.load_failed": "Failed to load professions feed",
	"profile.load_failed":    "Failed to load profile",

	// Rate limit
	"rate_limit.exceeded": "Rate limit exceeded. Please try again in %d seconds",
}

var arMessages = map[string]string{
	// Common errors
	"error.not_found":         "المورد المطلوب غير موجود",
	"error.unauthorized":      "يجب تسجيل الدخول",
	"error.forbidden":         "غير مسموح بالوصول",
	"error.bad_request":       "طلب غير صالح",
	"error.internal":          "حدث خطأ داخلي في الخادم",
	"error.upstream":          "الخدمة غير متاحة مؤقتا",
	"error.too_many_requests": "طلبات كثيرة جدا. يرجى المحاولة لاحقا",
	"error.validation":        "بيانات غير صالحة",

	// Toast titles
	"toast.title.success":    "تم بنجاح!",
	"toast.title.error":      "خطأ",
	"toast.title.info":       "معلومة",
	"toast.title.warning":    "تنبيه",
	"toast.title.network":    "خطأ في الاتصال",
	"toast.title.validation": "خطأ في التحقق",
	"toast.network_error":    "تعذر الاتصال بالخادم. يرجى التحقق من اتصالك بالإنترنت والمحاولة مرة أخرى.",

	// Feed
	"feed.load_failed": "تعذر تحميل الصفحة الرئيسية",

	// Posts
	"post.not_found":        "المنشور غير موجود.",
	"post.load_failed":      "خطأ في الشبكة.",
	"post.login_required":   "يرجى تسجيل الدخول للتفاعل مع المنشورات",
	"post.interact_failed":  "تعذر تحديث تفاعلك",
	"post.saved":            "تم حفظ المنشور",
	"post.unsaved":          "تمت إزالة المنشور من المحفوظات",
	"post.save_failed":      "تعذر حفظ المنشور",
	"post.shared":           "تمت مشاركة المنشور",
	"post.share_failed":     "تعذرت مشاركة المنشور",
	"post.delete_success":   "تم حذف المنشور",
	"post.delete_failed":    "تعذر حذف المنشور",
	"post.delete_forbidden": "حذف هذا المنشور",
	"post.edit_forbidden":   "تعديل هذا المنشور",
	"post.created":          "تم نشر المنشور",
	"post.create_failed":    "تعذر نشر المنشور",
	"post.updated":          "تم تحديث المنشور",
	"post.update_failed":    "تعذر تحديث المنشور",
	"post.invalid_title":    "العنوان مطلوب ويجب ألا يتجاوز 200 حرف",
	"post.invalid_content":  "المحتوى مطلوب",
	"post.invalid_category": "فئة غير معروفة",

	// Comments
	"comment.login_required": "يرجى تسجيل الدخول للتعليق",
	"comment.empty":          "لا يمكن أن يكون التعليق فارغا",
	"comment.too_long":       "التعليق طويل جدا",
	"comment.added":          "تمت إضافة التعليق",
	"comment.failed":         "تعذرت إضافة التعليق",
	"comment.reply_failed":   "تعذر إرسال الرد",
	"comment.parent_missing": "التعليق الذي ترد عليه لم يعد موجودا",

	// Communities
	"community.login_required": "يرجى تسجيل الدخول للانضمام إلى المجتمعات",
	"community.joined":         "تم الانضمام إلى %s بنجاح!",
	"community.join_failed":    "تعذر الانضمام",
	"community.join_error":     "حدث خطأ أثناء الانضمام.",
	"community.load_failed":    "تعذر تحميل المجتمع",

	// Profiles
	"profession.load_failed": "تعذر تحميل صفحة المهن",
	"profile.load_failed":    "تعذر تحميل الملف الشخصي",

	// Rate limit
	"rate_limit.exceeded": "تم تجاوز حد الطلبات. يرجى المحاولة بعد %d ثانية",
}

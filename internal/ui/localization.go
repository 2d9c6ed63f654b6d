package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeyDownload           = "download"
	KeySettings           = "settings"
	KeyFile               = "file"
	KeyLanguage           = "language"
	KeyVideoURL           = "video_url"
	KeyPaste              = "paste"
	KeyOutputDirectory    = "output_directory"
	KeyBrowse             = "browse"
	KeyResolution         = "resolution"
	KeyBestAvailable      = "best_available"
	KeyExtractAudio       = "extract_audio"
	KeyAudioFormat        = "audio_format"
	KeyLog                = "log"
	KeyReveal             = "reveal"
	KeyOpen               = "open"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeyEnterURL           = "enter_url"
	KeySettingsSaved      = "settings_saved"
	KeyDownloadStarted    = "download_started"
	KeyDownloadCompleted  = "download_completed"
	KeyDownloadFailed     = "download_failed"
	KeyErrorOpeningFile   = "error_opening_file"
	KeyInvalidURL         = "invalid_url"
	KeyPleaseEnterURL     = "please_enter_url"
	KeyClipboardNoURL     = "clipboard_no_url"
	KeyAlreadyDownloading = "already_downloading"
	KeyReady              = "ready"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "YT Fetch",
		KeyDownload:           "Download",
		KeySettings:           "Settings",
		KeyFile:               "File",
		KeyLanguage:           "Language",
		KeyVideoURL:           "YouTube URL",
		KeyPaste:              "Paste",
		KeyOutputDirectory:    "Output Directory",
		KeyBrowse:             "Browse",
		KeyResolution:         "Resolution",
		KeyBestAvailable:      "Best Available",
		KeyExtractAudio:       "Extract Audio",
		KeyAudioFormat:        "Audio Format",
		KeyLog:                "Log",
		KeyReveal:             "Show in Folder",
		KeyOpen:               "Open",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeyEnterURL:           "Enter YouTube URL (https://youtube.com/watch?v=...)",
		KeySettingsSaved:      "Settings saved successfully!",
		KeyDownloadStarted:    "Download started",
		KeyDownloadCompleted:  "Download completed",
		KeyDownloadFailed:     "Download failed",
		KeyErrorOpeningFile:   "Error opening file",
		KeyInvalidURL:         "Invalid URL",
		KeyPleaseEnterURL:     "Please enter a YouTube URL",
		KeyClipboardNoURL:     "Clipboard does not contain a URL",
		KeyAlreadyDownloading: "A download is already in progress",
		KeyReady:              "Ready",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:           "YT Fetch",
		KeyDownload:           "Скачать",
		KeySettings:           "Настройки",
		KeyFile:               "Файл",
		KeyLanguage:           "Язык",
		KeyVideoURL:           "URL YouTube",
		KeyPaste:              "Вставить",
		KeyOutputDirectory:    "Папка загрузки",
		KeyBrowse:             "Обзор",
		KeyResolution:         "Разрешение",
		KeyBestAvailable:      "Лучшее доступное",
		KeyExtractAudio:       "Извлечь аудио",
		KeyAudioFormat:        "Формат аудио",
		KeyLog:                "Журнал",
		KeyReveal:             "Показать в папке",
		KeyOpen:               "Открыть",
		KeySave:               "Сохранить",
		KeyCancel:             "Отмена",
		KeyEnterURL:           "Введите URL YouTube (https://youtube.com/watch?v=...)",
		KeySettingsSaved:      "Настройки успешно сохранены!",
		KeyDownloadStarted:    "Загрузка начата",
		KeyDownloadCompleted:  "Загрузка завершена",
		KeyDownloadFailed:     "Ошибка загрузки",
		KeyErrorOpeningFile:   "Ошибка открытия файла",
		KeyInvalidURL:         "Неверный URL",
		KeyPleaseEnterURL:     "Пожалуйста, введите URL YouTube",
		KeyClipboardNoURL:     "В буфере обмена нет URL",
		KeyAlreadyDownloading: "Загрузка уже выполняется",
		KeyReady:              "Готово",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:           "YT Fetch",
		KeyDownload:           "Baixar",
		KeySettings:           "Configurações",
		KeyFile:               "Arquivo",
		KeyLanguage:           "Idioma",
		KeyVideoURL:           "URL do YouTube",
		KeyPaste:              "Colar",
		KeyOutputDirectory:    "Diretório de Saída",
		KeyBrowse:             "Navegar",
		KeyResolution:         "Resolução",
		KeyBestAvailable:      "Melhor Disponível",
		KeyExtractAudio:       "Extrair Áudio",
		KeyAudioFormat:        "Formato de Áudio",
		KeyLog:                "Registro",
		KeyReveal:             "Mostrar na Pasta",
		KeyOpen:               "Abrir",
		KeySave:               "Salvar",
		KeyCancel:             "Cancelar",
		KeyEnterURL:           "Digite URL do YouTube (https://youtube.com/watch?v=...)",
		KeySettingsSaved:      "Configurações salvas com sucesso!",
		KeyDownloadStarted:    "Download iniciado",
		KeyDownloadCompleted:  "Download concluído",
		KeyDownloadFailed:     "Falha no download",
		KeyErrorOpeningFile:   "Erro ao abrir arquivo",
		KeyInvalidURL:         "URL inválida",
		KeyPleaseEnterURL:     "Por favor, digite uma URL do YouTube",
		KeyClipboardNoURL:     "A área de transferência não contém uma URL",
		KeyAlreadyDownloading: "Um download já está em andamento",
		KeyReady:              "Pronto",
	}
}

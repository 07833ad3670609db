package search

import "lokai/models"

type MessageKey string

const (
	MsgLoading            MessageKey = "services.loading"
	MsgNoResults          MessageKey = "services.noResults"
	MsgSearching          MessageKey = "voice.searching"
	MsgSpeakNow           MessageKey = "voice.speakNow"
	MsgLocationDetected   MessageKey = "common.locationDetected"
	MsgDetectingLocation  MessageKey = "common.detectingLocation"
	MsgFallbackInsight    MessageKey = "recommendations.fallbackInsight"
	MsgFallbackNearbyTip  MessageKey = "recommendations.fallbackNearbyTip"
	MsgCatalogUnavailable MessageKey = "notice.catalogUnavailable"
	MsgMicrophoneDenied   MessageKey = "notice.microphoneDenied"
	MsgVoiceUnsupported   MessageKey = "notice.voiceUnsupported"
	MsgLocationDenied     MessageKey = "notice.locationDenied"
	MsgLocationFailed     MessageKey = "notice.locationFailed"
)

var messages = map[MessageKey]map[models.LanguageCode]string{
	MsgLoading: {
		models.LangEnglish: "Loading services...",
		models.LangHindi:   "सेवाएं लोड हो रही हैं...",
		models.LangKannada: "ಸೇವೆಗಳನ್ನು ಲೋಡ್ ಮಾಡಲಾಗುತ್ತಿದೆ...",
		models.LangTelugu:  "సేవలను లోడ్ చేస్తోంది...",
		models.LangTamil:   "சேவைகள் ஏற்றப்படுகின்றன...",
	},
	MsgNoResults: {
		models.LangEnglish: "No services found. New vendor services require admin approval before appearing here.",
		models.LangHindi:   "कोई सेवा नहीं मिली। नई विक्रेता सेवाओं को यहां दिखाई देने से पहले व्यवस्थापक अनुमोदन की आवश्यकता है।",
		models.LangKannada: "ಯಾವುದೇ ಸೇವೆಗಳು ಕಂಡುಬಂದಿಲ್ಲ। ಹೊಸ ಮಾರಾಟಗಾರ ಸೇವೆಗಳಿಗೆ ಇಲ್ಲಿ ಕಾಣಿಸಿಕೊಳ್ಳಲು ನಿರ್ವಾಹಕ ಅನುಮೋದನೆ ಅಗತ್ಯವಿದೆ।",
		models.LangTelugu:  "సేవలు కనుగొనబడలేదు. కొత్త విక్రేత సేవలకు ఇక్కడ కనిపించడానికి అడ్మిన్ ఆమోదం అవసరం.",
		models.LangTamil:   "சேவைகள் எதுவும் கிடைக்கவில்லை. புதிய விற்பனையாளர் சேவைகள் இங்கு தோன்ற நிர்வாகி ஒப்புதல் தேவை.",
	},
	MsgSearching: {
		models.LangEnglish: "Searching...",
		models.LangHindi:   "खोज रहे हैं...",
		models.LangKannada: "ಹುಡುಕುತ್ತಿದೆ...",
		models.LangTelugu:  "వెతుకుతోంది...",
		models.LangTamil:   "தேடுகிறது...",
	},
	MsgSpeakNow: {
		models.LangEnglish: "Speak now...",
		models.LangHindi:   "अभी बोलें...",
		models.LangKannada: "ಈಗ ಮಾತನಾಡಿ...",
		models.LangTelugu:  "ఇప్పుడు మాట్లాడండి...",
		models.LangTamil:   "இப்போது பேசுங்கள்...",
	},
	MsgLocationDetected: {
		models.LangEnglish: "Location detected",
		models.LangHindi:   "स्थान का पता चला",
		models.LangKannada: "ಸ್ಥಳ ಪತ್ತೆಯಾಗಿದೆ",
		models.LangTelugu:  "స్థానం గుర్తించబడింది",
		models.LangTamil:   "இடம் கண்டறியப்பட்டது",
	},
	MsgDetectingLocation: {
		models.LangEnglish: "Detecting location...",
		models.LangHindi:   "स्थान का पता लगा रहे हैं...",
		models.LangKannada: "ಸ್ಥಳವನ್ನು ಪತ್ತೆಮಾಡಲಾಗುತ್ತಿದೆ...",
		models.LangTelugu:  "స్థానాన్ని గుర్తిస్తోంది...",
		models.LangTamil:   "இடம் கண்டறியப்படுகிறது...",
	},
	MsgFallbackInsight: {
		models.LangEnglish: "Showing the services closest to you.",
		models.LangHindi:   "आपके सबसे नज़दीकी सेवाएं दिखाई जा रही हैं।",
		models.LangKannada: "ನಿಮಗೆ ಹತ್ತಿರದ ಸೇವೆಗಳನ್ನು ತೋರಿಸಲಾಗುತ್ತಿದೆ.",
		models.LangTelugu:  "మీకు దగ్గరలో ఉన్న సేవలను చూపిస్తోంది.",
		models.LangTamil:   "உங்களுக்கு அருகிலுள்ள சேவைகள் காட்டப்படுகின்றன.",
	},
	MsgFallbackNearbyTip: {
		models.LangEnglish: "Enable location access to see services near you first.",
		models.LangHindi:   "पास की सेवाएं पहले देखने के लिए स्थान की अनुमति दें।",
		models.LangKannada: "ಹತ್ತಿರದ ಸೇವೆಗಳನ್ನು ಮೊದಲು ನೋಡಲು ಸ್ಥಳ ಪ್ರವೇಶವನ್ನು ಸಕ್ರಿಯಗೊಳಿಸಿ.",
		models.LangTelugu:  "దగ్గరలోని సేవలను ముందుగా చూడటానికి స్థాన అనుమతిని ఇవ్వండి.",
		models.LangTamil:   "அருகிலுள்ள சேவைகளை முதலில் காண இருப்பிட அனுமதியை இயக்கவும்.",
	},
	MsgCatalogUnavailable: {
		models.LangEnglish: "Could not load services. Showing the last available list.",
		models.LangHindi:   "सेवाएं लोड नहीं हो सकीं। पिछली उपलब्ध सूची दिखाई जा रही है।",
		models.LangKannada: "ಸೇವೆಗಳನ್ನು ಲೋಡ್ ಮಾಡಲಾಗಲಿಲ್ಲ. ಕೊನೆಯ ಲಭ್ಯ ಪಟ್ಟಿಯನ್ನು ತೋರಿಸಲಾಗುತ್ತಿದೆ.",
		models.LangTelugu:  "సేవలను లోడ్ చేయడం సాధ్యం కాలేదు. చివరి జాబితాను చూపిస్తోంది.",
		models.LangTamil:   "சேவைகளை ஏற்ற முடியவில்லை. கடைசியாக கிடைத்த பட்டியல் காட்டப்படுகிறது.",
	},
	MsgMicrophoneDenied: {
		models.LangEnglish: "Microphone access was denied.",
		models.LangHindi:   "माइक्रोफ़ोन की अनुमति नहीं मिली।",
		models.LangKannada: "ಮೈಕ್ರೋಫೋನ್ ಪ್ರವೇಶವನ್ನು ನಿರಾಕರಿಸಲಾಗಿದೆ.",
		models.LangTelugu:  "మైక్రోఫోన్ అనుమతి నిరాకరించబడింది.",
		models.LangTamil:   "மைக்ரோஃபோன் அனுமதி மறுக்கப்பட்டது.",
	},
	MsgVoiceUnsupported: {
		models.LangEnglish: "Voice search is not available here.",
		models.LangHindi:   "यहां वॉइस खोज उपलब्ध नहीं है।",
		models.LangKannada: "ಧ್ವನಿ ಹುಡುಕಾಟ ಇಲ್ಲಿ ಲಭ್ಯವಿಲ್ಲ.",
		models.LangTelugu:  "వాయిస్ శోధన ఇక్కడ అందుబాటులో లేదు.",
		models.LangTamil:   "குரல் தேடல் இங்கு கிடைக்கவில்லை.",
	},
	MsgLocationDenied: {
		models.LangEnglish: "Location access was denied. Distances are not shown.",
		models.LangHindi:   "स्थान की अनुमति नहीं मिली। दूरी नहीं दिखाई जाएगी।",
		models.LangKannada: "ಸ್ಥಳ ಪ್ರವೇಶವನ್ನು ನಿರಾಕರಿಸಲಾಗಿದೆ. ದೂರವನ್ನು ತೋರಿಸಲಾಗುವುದಿಲ್ಲ.",
		models.LangTelugu:  "స్థాన అనుమతి నిరాకరించబడింది. దూరాలు చూపబడవు.",
		models.LangTamil:   "இருப்பிட அனுமதி மறுக்கப்பட்டது. தூரங்கள் காட்டப்படாது.",
	},
	MsgLocationFailed: {
		models.LangEnglish: "Could not detect your location.",
		models.LangHindi:   "आपके स्थान का पता नहीं चल सका।",
		models.LangKannada: "ನಿಮ್ಮ ಸ್ಥಳವನ್ನು ಪತ್ತೆಮಾಡಲಾಗಲಿಲ್ಲ.",
		models.LangTelugu:  "మీ స్థానాన్ని గుర్తించలేకపోయాము.",
		models.LangTamil:   "உங்கள் இருப்பிடத்தைக் கண்டறிய முடியவில்லை.",
	},
}

// Message looks up key in lang, falling back to English and then to the
// key itself.
func Message(lang models.LanguageCode, key MessageKey) string {
	byLang, ok := messages[key]
	if !ok {
		return string(key)
	}
	if s, ok := byLang[lang]; ok {
		return s
	}
	return byLang[models.DefaultLanguage]
}

// Notice is a transient, non-fatal message for the buyer.
type Notice struct {
	Kind    MessageKey `json:"kind"`
	Message string     `json:"message"`
}

func newNotice(lang models.LanguageCode, key MessageKey) Notice {
	return Notice{Kind: key, Message: Message(lang, key)}
}

package i18n

// catalog holds every renderable line for one locale. Pools are sampled,
// everything else is a plain format string.
type catalog struct {
	start           string
	enabled         string
	alreadyEnabled  string
	disabled        string
	alreadyDisabled string

	reminder  string
	countdown string

	offenderLines []string // %s: offender
	timingLines   []string

	reportNoone        string
	reportCount        string // %d: count
	reportNewRecord    string // %d: delta over previous record
	reportParticipant  string // %s: the single participant
	reportParticipants string // %s: comma-joined participants
	reportWinner       string // %s: winner
	reportCongrats     string
	reportAborted      string

	languageChanged string
	languageUnknown string // %s: the unknown code

	infoActive   string
	infoInactive string
	infoLeetTime string // %02d:%02d %s
	infoVersion  string // %s
	infoLanguage string // %s
	infoRecord   string // %d

	stateReset string
}

var catalogDE = &catalog{
	start:           "Hallo i bims, 1 LeetBot. I zaehl euere Leetposts vong Heaufigkiet hern.",
	enabled:         "Hallo zusammen! Ich überwache diesen Channel nun. Frohes leeten!",
	alreadyEnabled:  "Ich bin bereits aktiv!",
	disabled:        "Leeten ist vorbei. Tschüssi!",
	alreadyDisabled: "Ich bin bereits deaktiviert!",

	reminder:  "doooods",
	countdown: "Gleich ist es soweit!",

	offenderLines: []string{
		"DUUU DRECKIGERS STUK SCHEIẞE WARUM MACHST DU SWOWAS\nMACH DES JA NET NOCHMAL DO SCHMOK WAS DA LOS\nALLE AMBARSCH NACH HAUSE LEET ZEIT IS VORBEI WGEEN %s",
		"OHHHH Mann %s, Du hattes genau eine Aufgabe und hast nicht mal das hinbekommen, wie kann man sich als so ein Verlierer noch in der Öffentlichkeit sehen lassen? Wie schwer kann das denn sein?",
		"Als die Intelligenz verteilt wurde war %s wohl grade kacken, anders kann ich mir nicht erklären wie man so jämmerlich versagen kann.",
		"EIN MAL UM 13:37 UHR 1337 SCHREIBEN UND SONST DIE FRESSE HALTEN!! Ist es so schwer? Geht wohl nicht in deine Birne rein, %s... smh",
	},
	timingLines: []string{
		"digga hast du eine uhr? mach ma so sachen nicht",
		"atomuhr.de ist dein freund aber wenn du so weiter machst bald nichtmal mehr das",
		"ob du ne uhr hast?",
		"Ich bin nicht wütend, ich bin nur enttäuscht.",
		"Wer hat mich schon wieder ohne Grund geweckt?",
		"Je öfter man 1337 schreibt desto witziger wirds... NICHT!",
		"mach den kopf zu, du senfglas",
		"kalt.",
		"kälter.",
		"ganz kalt",
		"du nullnummer... lächerlich",
		"geh mir nicht auf den sack",
		"hast du lack gesoffen?",
		"da ist die tür.",
	},

	reportNoone:        "Ein trauriger Tag, an dem niemand die 1337 feiert. Schämt euch alle!",
	reportCount:        "Heute haben wir %d Posts erreicht!",
	reportNewRecord:    "Fuck yea, das ist ein neuer Rekord! Wir haben uns um %d gesteigert! 🎉",
	reportParticipant:  "Teilnehmer war: %s. Bleib stark, du musst uns alle tragen.",
	reportParticipants: "Teilnehmer waren: %s.",
	reportWinner:       "1337 |-|4><0R des Tages: %s!!",
	reportCongrats:     "Glückwunsch!",
	reportAborted:      "Der Tag wurde heute leider versaut. Morgen wird alles besser.",

	languageChanged: "Ok, ab jetzt schreibe ich Deutsch.",
	languageUnknown: "Sorry, die Sprache \"%s\" kenne ich nicht.",

	infoActive:   "Ich bin in diesem Chat aktiv. Gib /disable ein, um mich zu deaktivieren.",
	infoInactive: "Ich bin in diesem Chat nicht aktiv. Gib /enable ein, um mich zu aktivieren.",
	infoLeetTime: "Leet-Time ist um %02d:%02d in %s.",
	infoVersion:  "Aktuelle Version: %s",
	infoLanguage: "Aktuelle Sprache: %s",
	infoRecord:   "Aktueller Rekord: %d",

	stateReset: "Ich habe versucht, es aus und wieder an zu schalten. Sollte jetzt passen.",
}

var catalogEN = &catalog{
	start:           "Hello, I'm the LeetBot. I count your leeting.",
	enabled:         "Hi everyone! I am now watching this channel. Happy leeting!",
	alreadyEnabled:  "I'm already enabled!",
	disabled:        "Leeting is over. Bye!",
	alreadyDisabled: "I'm already disabled!",

	reminder:  "doooods",
	countdown: "Almost time!",

	offenderLines: []string{
		"YOU FUCKING ASSHOLE YOU WHYY DO YOU DO THAT DON'T DO THAT AGAIN\nEVERYBODY GO HOME LEET TIME IS OVER BECAUSE OF %s!!1!",
	},
	timingLines: []string{
		"dood do you have a watch? don't do this",
	},

	reportNoone:        "T'is a sad day when noone celebrates the 1337. Shame on all of you!",
	reportCount:        "Today we reached %d posts!",
	reportNewRecord:    "Fuck yea, that's a new record! That's %d more than last time! 🎉",
	reportParticipant:  "Participant was: %s. Be strong, you have to carry us all.",
	reportParticipants: "Participants were: %s.",
	reportWinner:       "The winner of the day is: %s!!",
	reportCongrats:     "Congratulations!",
	reportAborted:      "Today got spoiled. Tomorrow will be better.",

	languageChanged: "Ok, I'll write English from now on.",
	languageUnknown: "Sorry, I don't know the language \"%s\".",

	infoActive:   "I am active in this chat. Enter /disable to deactivate me.",
	infoInactive: "I am not active in this chat. Enter /enable to activate me.",
	infoLeetTime: "Leet-Time is at %02d:%02d in %s.",
	infoVersion:  "Current version: %s",
	infoLanguage: "Current language: %s",
	infoRecord:   "Current record: %d",

	stateReset: "I tried turning it off and on again. Should be fine now.",
}

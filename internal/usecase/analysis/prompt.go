package analysis

import "strings"

// PromptLanguage selects the wording of the analysis instructions
type PromptLanguage string

const (
	PromptJapanese PromptLanguage = "ja"
	PromptEnglish  PromptLanguage = "en"
)

const outputContract = `{ "summary":[], "decisions":[], "todos":[{"assignee":"","due_date":"","task":""}] }`

var promptHeads = map[PromptLanguage][]string{
	PromptJapanese: {
		"以下は会議の文字起こしです。この内容をもとに、次の3つを必ず JSON で返してください。",
		"1) summary（最大全5点。重要度の高い論点や結論の要約を短文で。）",
		"2) decisions（決定事項：箇条書き。会議中に明確に合意/承認/決定された内容のみ（推測不可））",
		"3) todos（担当者/期限日/行動が分かる命令形/動詞始まりの短文（例:「◯◯の見積を作成」））",
		"期限日は YYYY-MM-DD 形式、不明な場合は空文字にしてください。",
		"出力は以下のキー構造のみ：",
	},
	PromptEnglish: {
		"The following is a meeting transcript. Based on it, always return the three items below as JSON.",
		"1) summary (at most 5 points; short sentences covering the most important topics and conclusions)",
		"2) decisions (bullet points; only what was clearly agreed, approved or decided in the meeting, no guessing)",
		"3) todos (assignee, due date and a short imperative task starting with a verb, e.g. \"Prepare the quote for X\")",
		"Use YYYY-MM-DD for due dates, or an empty string when unknown.",
		"Output only this key structure:",
	},
}

var promptLabels = map[PromptLanguage][4]string{
	PromptJapanese: {"--- ここから文字起こし ---", "--- ここまで ---", "会議名: ", "開催日時: "},
	PromptEnglish:  {"--- transcript begins ---", "--- transcript ends ---", "Meeting title: ", "Meeting date: "},
}

// BuildPrompt renders the analysis query for a transcript. Unknown
// languages fall back to Japanese.
func BuildPrompt(lang PromptLanguage, title, meetingDate, transcript string) string {
	head, ok := promptHeads[lang]
	if !ok {
		lang = PromptJapanese
		head = promptHeads[lang]
	}
	labels := promptLabels[lang]

	lines := make([]string, 0, len(head)+8)
	lines = append(lines, head...)
	lines = append(lines,
		outputContract,
		"",
		labels[0],
		transcript,
		labels[1],
		"",
		labels[2]+title,
		labels[3]+meetingDate,
	)
	return strings.Join(lines, "\n")
}

package llm

import (
	"encoding/json"
	"strings"
)

const systemPrompt = "You are a data assistant for a safety dashboard. You are given a JSON of precomputed " +
	"insights (aggregated counts, trends). Answer using only this data. If data does not include " +
	"the requested information, say you don't have it.\n\n" +
	"Formatting: Start with a one-sentence summary, then concise bullets. For tables, use GitHub-flavored " +
	"Markdown tables only (with a header row and separator). Do NOT output ASCII art tables."

const verboseSuffix = "\n\nVerbose mode: Provide richer insights across multiple angles (Incidents, Hazards, Audits, Inspections) " +
	"when available. Call out top categories, trends, and notable highs/lows. Keep phrasing crisp."

// SystemPrompt 系统提示词
func SystemPrompt(verbose bool) string {
	if verbose {
		return systemPrompt + verboseSuffix
	}
	return systemPrompt
}

// UserPrompt 用户提示词：问题 + 相关知识库 JSON（map 序列化时 key 有序）
func UserPrompt(req Request) (string, error) {
	insights := req.Insights
	if insights == nil {
		insights = map[string]any{}
	}
	data, err := json.Marshal(insights)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("User question: ")
	b.WriteString(req.Question)
	b.WriteString("\n\nRelevant insights JSON (keys and small objects):\n")
	b.Write(data)
	if req.Verbose {
		b.WriteString("\n\nUser requested verbose insights: true")
	}
	return b.String(), nil
}

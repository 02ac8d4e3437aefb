package service

import (
	"fmt"
	"strings"

	"docuchat/internal/domain"
)

// Text prefix bounds sent to the model. Classification and extraction
// never need the whole document.
const (
	classifyPrefixBytes = 2000
	extractPrefixBytes  = 3000
	rawExcerptBytes     = 1000
)

const classificationPrompt = `Analyze the following document text and classify it into one of these categories:
- contract: Legal agreements, terms and conditions, contracts
- invoice: Bills, invoices, financial documents
- report: Reports, analysis, research documents
- letter: Letters, correspondence, memos
- other: Any other document type

Document text:
%s

Classification (respond with only the category name):`

// extractionPrompts maps document type to its extraction template.
// Types without an entry fall back to a raw text excerpt.
var extractionPrompts = map[string]string{
	domain.DocTypeContract: `Extract key information from this contract document:
- Parties involved
- Contract value/amount
- Start and end dates
- Key terms and conditions
- Signatures

Document text:
%s

Return as JSON format:`,
	domain.DocTypeInvoice: `Extract key information from this invoice:
- Invoice number
- Date
- Due date
- Total amount
- Vendor/client information
- Line items

Document text:
%s

Return as JSON format:`,
	domain.DocTypeReport: `Extract key information from this report:
- Report title
- Author
- Date
- Executive summary
- Key findings
- Recommendations

Document text:
%s

Return as JSON format:`,
}

const answerPrompt = `You are a helpful AI assistant that answers questions about documents.
Use the provided context from documents to answer questions accurately.

Context from documents:
%s

Conversation history:
%s

Current question: %s

Instructions:
1. Answer based on the document context provided
2. If the information is not in the documents, say so clearly
3. Be concise but informative
4. If you reference specific documents, mention the filename
5. Maintain conversation flow and context

Response:`

const summaryPrompt = `Summarize the following conversation in 2-3 sentences:

%s

Summary:`

const suggestionPrompt = `Based on the current question and recent conversation context, suggest 3 relevant follow-up questions.
Make them specific and helpful for understanding the documents better.

Current question: %s
Recent context: %s

Suggest 3 follow-up questions:
1.
2.
3.`

// Fixed fallback texts used at degradation boundaries.
const (
	noContextMarker   = "No relevant documents found."
	noHistoryMarker   = "No previous conversation."
	degradedResponse  = "I apologize, but I encountered an error while processing your request. Please try again."
	emptySummaryText  = "No conversation to summarize."
	failedSummaryText = "Unable to generate summary."
)

// renderHistory renders messages as "role: content" lines, oldest
// first.
func renderHistory(messages []domain.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return strings.Join(lines, "\n")
}

// textPrefix bounds text to at most n bytes without splitting a UTF-8
// sequence.
func textPrefix(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && text[n]&0xC0 == 0x80 {
		n--
	}
	return text[:n]
}

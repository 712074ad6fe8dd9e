package ai

import (
	"fmt"
	"strings"
)

// SystemPrompt sets the analyst persona.
const SystemPrompt = `You are a League of Legends gameplay analyst. You have access to a player's match history data in CSV format.`

// BuildUserPrompt embeds the player's stats CSV and their question.
func BuildUserPrompt(statsCSV, question string) string {
	var sb strings.Builder

	sb.WriteString("Here is the player's match data:\n\n")
	sb.WriteString(strings.TrimSpace(statsCSV))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("The player is asking: %s\n\n", question))
	sb.WriteString("Please analyze the data and provide a helpful, insightful answer. ")
	sb.WriteString("Be specific and reference actual statistics from the data. ")
	sb.WriteString("Keep your response concise but informative (2-3 paragraphs max).\n\n")
	sb.WriteString("If the question cannot be answered with the available data, explain what additional information would be needed.")

	return sb.String()
}

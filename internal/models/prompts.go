package models

// SystemPrompt instructs the model to stay grounded in retrieved passages.
const SystemPrompt = `You are a helpful assistant answering questions about uploaded documents. Use the provided context passages to answer the query. If the answer is not contained in the context, say that you don't know. Do not invent information.`

// UserPromptTemplate combines the retrieved passages with the question.
// Arguments: grounding context, question.
var UserPromptTemplate = `Context:
%s
Query: %s`

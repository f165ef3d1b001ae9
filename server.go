package rag

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/HasinduNiran/Nephro-AI-sub000/config"
	"github.com/HasinduNiran/Nephro-AI-sub000/patient"
)

const Version = "1.0.0"

// NewServer builds the MCP server exposing the chat pipeline and its
// management tools.
func NewServer(cfg *config.Config) (*server.MCPServer, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("create engine failed, err: %w", err)
	}

	s := server.NewMCPServer(
		"nephro-chat",
		Version,
		server.WithInstructions("Bilingual (English/Sinhala) question answering for chronic kidney disease patients, grounded in a clinical knowledge base and the patient's own profile"),
	)

	s.AddTool(
		mcp.NewToolWithRawSchema("chat", "Answer a patient question in their own language using retrieved clinical knowledge", chatSchema()),
		handleChat(engine),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("update-patient", "Store or replace a patient's clinical profile; cached answers for the patient are invalidated", updatePatientSchema()),
		handleUpdatePatient(engine),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("invalidate-cache", "Drop all cached answers for a patient", invalidateCacheSchema()),
		handleInvalidateCache(engine),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("clear-history", "Forget a patient's conversation history", clearHistorySchema()),
		handleClearHistory(engine),
	)

	return s, nil
}

func chatSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"patient_id": {"type": "string", "description": "Patient identifier; defaults to default_patient"},
			"query": {"type": "string", "description": "Patient message in English, Sinhala or romanized Sinhala"}
		},
		"required": ["query"]
	}`)
}

func updatePatientSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"patient_id": {"type": "string", "description": "Patient identifier"},
			"ckd_stage": {"type": "integer", "description": "CKD stage 1-5"},
			"egfr": {"type": "number", "description": "Latest eGFR in mL/min/1.73m2"},
			"lab_values": {"type": "object", "description": "Lab name to value, e.g. {\"potassium\": \"5.1\"}"},
			"medications": {"type": "array", "items": {"type": "string"}},
			"notes": {"type": "string"}
		},
		"required": ["patient_id"]
	}`)
}

func invalidateCacheSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"patient_id": {"type": "string", "description": "Patient identifier"}
		},
		"required": ["patient_id"]
	}`)
}

func clearHistorySchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"patient_id": {"type": "string", "description": "Patient identifier"}
		},
		"required": ["patient_id"]
	}`)
}

func handleChat(engine *Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		patientID := request.GetString("patient_id", DefaultPatientID)
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		resp, err := engine.ProcessQuery(ctx, patientID, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("chat failed: %v", err)), nil
		}
		payload, err := json.Marshal(resp)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode response failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}

func handleUpdatePatient(engine *Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		patientID, err := request.RequireString("patient_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		profile := patient.Profile{
			PatientID: patientID,
			CKDStage:  request.GetInt("ckd_stage", 0),
			EGFR:      request.GetFloat("egfr", 0),
			Notes:     request.GetString("notes", ""),
		}
		args := request.GetArguments()
		if labs, ok := args["lab_values"].(map[string]any); ok {
			profile.LabValues = make(map[string]string, len(labs))
			for name, v := range labs {
				profile.LabValues[name] = fmt.Sprintf("%v", v)
			}
		}
		if meds, ok := args["medications"].([]any); ok {
			for _, m := range meds {
				if s, ok := m.(string); ok {
					profile.Medications = append(profile.Medications, s)
				}
			}
		}

		engine.UpdatePatient(profile)
		return mcp.NewToolResultText(fmt.Sprintf("profile updated for %s", patientID)), nil
	}
}

func handleInvalidateCache(engine *Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		patientID, err := request.RequireString("patient_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		engine.InvalidateCache(patientID)
		return mcp.NewToolResultText(fmt.Sprintf("cache invalidated for %s", patientID)), nil
	}
}

func handleClearHistory(engine *Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		patientID, err := request.RequireString("patient_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := engine.ClearHistory(ctx, patientID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("clear history failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("history cleared for %s", patientID)), nil
	}
}

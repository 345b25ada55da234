package llm

import "nubit-transcribe/backend/internal/llm/contract"

type Provider = contract.Provider

type ProviderConfig = contract.ProviderConfig

type AnalysisResult = contract.AnalysisResult

type HealthCheckResult = contract.HealthCheckResult

type UsageStats = contract.UsageStats

type UsageRecord = contract.UsageRecord

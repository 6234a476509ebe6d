package config

type WorkerKeyStruct struct {
	PersistProgressQueue string
	PersistRewardsQueue  string
}

var WorkerKey = &WorkerKeyStruct{
	PersistProgressQueue: "persist_progress_queue",
	PersistRewardsQueue:  "persist_rewards_queue",
}

package model

// Model bundles a trained network with the dataset metadata it was trained
// on, so the two are persisted and loaded as a unit.
type Model struct {
	MetaData *Metadata
	Network  *WeightedMultiModalFusionNetwork
}

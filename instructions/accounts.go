package instructions

// AccountMeta is one entry of an instruction's account list.
type AccountMeta struct {
	PublicKey  [32]byte
	IsSigner   bool
	IsWritable bool
}

// Instruction is a fully-assembled program call.
type Instruction struct {
	ProgramID [32]byte
	Accounts  []AccountMeta
	Data      []byte
}

// SystemProgramID is the ledger's native system program (the all-zero key).
var SystemProgramID [32]byte

// DepositAccounts lists the depositV2 account order:
// payer (signer, writable), pool config, epoch tree (writable),
// leaf chunk (writable), vault (writable), payer token account (writable),
// token program, system program.
func DepositAccounts(payer, poolConfig, epochTree, leafChunk, vault, payerToken, tokenProgram [32]byte) []AccountMeta {
	return []AccountMeta{
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: poolConfig},
		{PublicKey: epochTree, IsWritable: true},
		{PublicKey: leafChunk, IsWritable: true},
		{PublicKey: vault, IsWritable: true},
		{PublicKey: payerToken, IsWritable: true},
		{PublicKey: tokenProgram},
		{PublicKey: SystemProgramID},
	}
}

// WithdrawAccounts lists the withdrawV2 account order:
// payer (signer, writable), pool config, verifier config, epoch tree,
// nullifier marker (writable), vault (writable), vault authority,
// recipient token account (writable), token program, system program.
func WithdrawAccounts(payer, poolConfig, verifierConfig, epochTree, nullifierMarker, vault, vaultAuthority, recipientToken, tokenProgram [32]byte) []AccountMeta {
	return []AccountMeta{
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: poolConfig},
		{PublicKey: verifierConfig},
		{PublicKey: epochTree},
		{PublicKey: nullifierMarker, IsWritable: true},
		{PublicKey: vault, IsWritable: true},
		{PublicKey: vaultAuthority},
		{PublicKey: recipientToken, IsWritable: true},
		{PublicKey: tokenProgram},
		{PublicKey: SystemProgramID},
	}
}

// TransferAccounts lists the transferV2 account order:
// payer (signer, writable), pool config, verifier config, input epoch tree,
// output epoch tree (writable), output leaf chunk (writable), two
// nullifier markers (writable), system program.
func TransferAccounts(payer, poolConfig, verifierConfig, inputTree, outputTree, outputChunk, nullifierMarkerA, nullifierMarkerB [32]byte) []AccountMeta {
	return []AccountMeta{
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: poolConfig},
		{PublicKey: verifierConfig},
		{PublicKey: inputTree},
		{PublicKey: outputTree, IsWritable: true},
		{PublicKey: outputChunk, IsWritable: true},
		{PublicKey: nullifierMarkerA, IsWritable: true},
		{PublicKey: nullifierMarkerB, IsWritable: true},
		{PublicKey: SystemProgramID},
	}
}

// RenewAccounts lists the renewNote account order:
// payer (signer, writable), pool config, verifier config, source epoch
// tree, target epoch tree (writable), target leaf chunk (writable),
// nullifier marker (writable), system program.
func RenewAccounts(payer, poolConfig, verifierConfig, sourceTree, targetTree, targetChunk, nullifierMarker [32]byte) []AccountMeta {
	return []AccountMeta{
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: poolConfig},
		{PublicKey: verifierConfig},
		{PublicKey: sourceTree},
		{PublicKey: targetTree, IsWritable: true},
		{PublicKey: targetChunk, IsWritable: true},
		{PublicKey: nullifierMarker, IsWritable: true},
		{PublicKey: SystemProgramID},
	}
}

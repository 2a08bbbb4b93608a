package packet

// Server → spectator opcodes. Spectators never send game commands.
const (
	S_OPCODE_HELLO        byte = 0x01 // [S server name][D tick rate ms][Q ticks per hour]
	S_OPCODE_CAMERA_FOCUS byte = 0x02 // [DU entity index][H x][H y][S label]
	S_OPCODE_FIRE_STARTED byte = 0x03 // [Q tick][DU entity index][D pos idx][H candidates][S name]
	S_OPCODE_BYE          byte = 0x04 // [S reason]
)

package cil

import "fmt"

// Opcode is a single-byte ECMA-335 opcode.
type Opcode uint8

// ExtOpcode is the second byte of a two-byte opcode (Prefix1 escape).
type ExtOpcode uint8

// Info is the static metadata of one opcode.
type Info struct {
	Name   string
	Pop    PopBehavior
	Push   PushBehavior
	Inline OperandKind
}

const (
	Nop         Opcode = 0x00
	Break       Opcode = 0x01
	Ldarg0      Opcode = 0x02
	Ldarg1      Opcode = 0x03
	Ldarg2      Opcode = 0x04
	Ldarg3      Opcode = 0x05
	Ldloc0      Opcode = 0x06
	Ldloc1      Opcode = 0x07
	Ldloc2      Opcode = 0x08
	Ldloc3      Opcode = 0x09
	Stloc0      Opcode = 0x0A
	Stloc1      Opcode = 0x0B
	Stloc2      Opcode = 0x0C
	Stloc3      Opcode = 0x0D
	LdargS      Opcode = 0x0E
	LdargaS     Opcode = 0x0F
	StargS      Opcode = 0x10
	LdlocS      Opcode = 0x11
	LdlocaS     Opcode = 0x12
	StlocS      Opcode = 0x13
	Ldnull      Opcode = 0x14
	LdcI4M1     Opcode = 0x15
	LdcI40      Opcode = 0x16
	LdcI41      Opcode = 0x17
	LdcI42      Opcode = 0x18
	LdcI43      Opcode = 0x19
	LdcI44      Opcode = 0x1A
	LdcI45      Opcode = 0x1B
	LdcI46      Opcode = 0x1C
	LdcI47      Opcode = 0x1D
	LdcI48      Opcode = 0x1E
	LdcI4S      Opcode = 0x1F
	LdcI4       Opcode = 0x20
	LdcI8       Opcode = 0x21
	LdcR4       Opcode = 0x22
	LdcR8       Opcode = 0x23
	Dup         Opcode = 0x25
	Pop         Opcode = 0x26
	Jmp         Opcode = 0x27
	Call        Opcode = 0x28
	Calli       Opcode = 0x29
	Ret         Opcode = 0x2A
	BrS         Opcode = 0x2B
	BrfalseS    Opcode = 0x2C
	BrtrueS     Opcode = 0x2D
	BeqS        Opcode = 0x2E
	BgeS        Opcode = 0x2F
	BgtS        Opcode = 0x30
	BleS        Opcode = 0x31
	BltS        Opcode = 0x32
	BneUnS      Opcode = 0x33
	BgeUnS      Opcode = 0x34
	BgtUnS      Opcode = 0x35
	BleUnS      Opcode = 0x36
	BltUnS      Opcode = 0x37
	Br          Opcode = 0x38
	Brfalse     Opcode = 0x39
	Brtrue      Opcode = 0x3A
	Beq         Opcode = 0x3B
	Bge         Opcode = 0x3C
	Bgt         Opcode = 0x3D
	Ble         Opcode = 0x3E
	Blt         Opcode = 0x3F
	BneUn       Opcode = 0x40
	BgeUn       Opcode = 0x41
	BgtUn       Opcode = 0x42
	BleUn       Opcode = 0x43
	BltUn       Opcode = 0x44
	Switch      Opcode = 0x45
	LdindI1     Opcode = 0x46
	LdindU1     Opcode = 0x47
	LdindI2     Opcode = 0x48
	LdindU2     Opcode = 0x49
	LdindI4     Opcode = 0x4A
	LdindU4     Opcode = 0x4B
	LdindI8     Opcode = 0x4C
	LdindI      Opcode = 0x4D
	LdindR4     Opcode = 0x4E
	LdindR8     Opcode = 0x4F
	LdindRef    Opcode = 0x50
	StindRef    Opcode = 0x51
	StindI1     Opcode = 0x52
	StindI2     Opcode = 0x53
	StindI4     Opcode = 0x54
	StindI8     Opcode = 0x55
	StindR4     Opcode = 0x56
	StindR8     Opcode = 0x57
	Add         Opcode = 0x58
	Sub         Opcode = 0x59
	Mul         Opcode = 0x5A
	Div         Opcode = 0x5B
	DivUn       Opcode = 0x5C
	Rem         Opcode = 0x5D
	RemUn       Opcode = 0x5E
	And         Opcode = 0x5F
	Or          Opcode = 0x60
	Xor         Opcode = 0x61
	Shl         Opcode = 0x62
	Shr         Opcode = 0x63
	ShrUn       Opcode = 0x64
	Neg         Opcode = 0x65
	Not         Opcode = 0x66
	ConvI1      Opcode = 0x67
	ConvI2      Opcode = 0x68
	ConvI4      Opcode = 0x69
	ConvI8      Opcode = 0x6A
	ConvR4      Opcode = 0x6B
	ConvR8      Opcode = 0x6C
	ConvU4      Opcode = 0x6D
	ConvU8      Opcode = 0x6E
	Callvirt    Opcode = 0x6F
	Cpobj       Opcode = 0x70
	Ldobj       Opcode = 0x71
	Ldstr       Opcode = 0x72
	Newobj      Opcode = 0x73
	Castclass   Opcode = 0x74
	Isinst      Opcode = 0x75
	ConvRUn     Opcode = 0x76
	Unbox       Opcode = 0x79
	Throw       Opcode = 0x7A
	Ldfld       Opcode = 0x7B
	Ldflda      Opcode = 0x7C
	Stfld       Opcode = 0x7D
	Ldsfld      Opcode = 0x7E
	Ldsflda     Opcode = 0x7F
	Stsfld      Opcode = 0x80
	Stobj       Opcode = 0x81
	ConvOvfI1Un Opcode = 0x82
	ConvOvfI2Un Opcode = 0x83
	ConvOvfI4Un Opcode = 0x84
	ConvOvfI8Un Opcode = 0x85
	ConvOvfU1Un Opcode = 0x86
	ConvOvfU2Un Opcode = 0x87
	ConvOvfU4Un Opcode = 0x88
	ConvOvfU8Un Opcode = 0x89
	ConvOvfIUn  Opcode = 0x8A
	ConvOvfUUn  Opcode = 0x8B
	Box         Opcode = 0x8C
	Newarr      Opcode = 0x8D
	Ldlen       Opcode = 0x8E
	Ldelema     Opcode = 0x8F
	LdelemI1    Opcode = 0x90
	LdelemU1    Opcode = 0x91
	LdelemI2    Opcode = 0x92
	LdelemU2    Opcode = 0x93
	LdelemI4    Opcode = 0x94
	LdelemU4    Opcode = 0x95
	LdelemI8    Opcode = 0x96
	LdelemI     Opcode = 0x97
	LdelemR4    Opcode = 0x98
	LdelemR8    Opcode = 0x99
	LdelemRef   Opcode = 0x9A
	StelemI     Opcode = 0x9B
	StelemI1    Opcode = 0x9C
	StelemI2    Opcode = 0x9D
	StelemI4    Opcode = 0x9E
	StelemI8    Opcode = 0x9F
	StelemR4    Opcode = 0xA0
	StelemR8    Opcode = 0xA1
	StelemRef   Opcode = 0xA2
	Ldelem      Opcode = 0xA3
	Stelem      Opcode = 0xA4
	UnboxAny    Opcode = 0xA5
	ConvOvfI1   Opcode = 0xB3
	ConvOvfU1   Opcode = 0xB4
	ConvOvfI2   Opcode = 0xB5
	ConvOvfU2   Opcode = 0xB6
	ConvOvfI4   Opcode = 0xB7
	ConvOvfU4   Opcode = 0xB8
	ConvOvfI8   Opcode = 0xB9
	ConvOvfU8   Opcode = 0xBA
	Refanyval   Opcode = 0xC2
	Ckfinite    Opcode = 0xC3
	Mkrefany    Opcode = 0xC6
	Ldtoken     Opcode = 0xD0
	ConvU2      Opcode = 0xD1
	ConvU1      Opcode = 0xD2
	ConvI       Opcode = 0xD3
	ConvOvfI    Opcode = 0xD4
	ConvOvfU    Opcode = 0xD5
	AddOvf      Opcode = 0xD6
	AddOvfUn    Opcode = 0xD7
	MulOvf      Opcode = 0xD8
	MulOvfUn    Opcode = 0xD9
	SubOvf      Opcode = 0xDA
	SubOvfUn    Opcode = 0xDB
	Endfinally  Opcode = 0xDC
	Leave       Opcode = 0xDD
	LeaveS      Opcode = 0xDE
	StindI      Opcode = 0xDF
	ConvU       Opcode = 0xE0
	Prefix1     Opcode = 0xFE
)

const (
	Arglist     ExtOpcode = 0x00
	Ceq         ExtOpcode = 0x01
	Cgt         ExtOpcode = 0x02
	CgtUn       ExtOpcode = 0x03
	Clt         ExtOpcode = 0x04
	CltUn       ExtOpcode = 0x05
	Ldftn       ExtOpcode = 0x06
	Ldvirtftn   ExtOpcode = 0x07
	Ldarg       ExtOpcode = 0x09
	Ldarga      ExtOpcode = 0x0A
	Starg       ExtOpcode = 0x0B
	Ldloc       ExtOpcode = 0x0C
	Ldloca      ExtOpcode = 0x0D
	Stloc       ExtOpcode = 0x0E
	Localloc    ExtOpcode = 0x0F
	Endfilter   ExtOpcode = 0x11
	Unaligned   ExtOpcode = 0x12
	Volatile    ExtOpcode = 0x13
	Tail        ExtOpcode = 0x14
	Initobj     ExtOpcode = 0x15
	Constrained ExtOpcode = 0x16
	Cpblk       ExtOpcode = 0x17
	Initblk     ExtOpcode = 0x18
	No          ExtOpcode = 0x19
	Rethrow     ExtOpcode = 0x1A
	Sizeof      ExtOpcode = 0x1C
	Refanytype  ExtOpcode = 0x1D
	Readonly    ExtOpcode = 0x1E
)

var opcodes = [256]Info{
	Nop:         {"nop", Pop0, Push0, InlineNone},
	Break:       {"break", Pop0, Push0, InlineNone},
	Ldarg0:      {"ldarg.0", Pop0, Push1, InlineNone},
	Ldarg1:      {"ldarg.1", Pop0, Push1, InlineNone},
	Ldarg2:      {"ldarg.2", Pop0, Push1, InlineNone},
	Ldarg3:      {"ldarg.3", Pop0, Push1, InlineNone},
	Ldloc0:      {"ldloc.0", Pop0, Push1, InlineNone},
	Ldloc1:      {"ldloc.1", Pop0, Push1, InlineNone},
	Ldloc2:      {"ldloc.2", Pop0, Push1, InlineNone},
	Ldloc3:      {"ldloc.3", Pop0, Push1, InlineNone},
	Stloc0:      {"stloc.0", Pop1, Push0, InlineNone},
	Stloc1:      {"stloc.1", Pop1, Push0, InlineNone},
	Stloc2:      {"stloc.2", Pop1, Push0, InlineNone},
	Stloc3:      {"stloc.3", Pop1, Push0, InlineNone},
	LdargS:      {"ldarg.s", Pop0, Push1, ShortInlineVar},
	LdargaS:     {"ldarga.s", Pop0, Pushi, ShortInlineVar},
	StargS:      {"starg.s", Pop1, Push0, ShortInlineVar},
	LdlocS:      {"ldloc.s", Pop0, Push1, ShortInlineVar},
	LdlocaS:     {"ldloca.s", Pop0, Pushi, ShortInlineVar},
	StlocS:      {"stloc.s", Pop1, Push0, ShortInlineVar},
	Ldnull:      {"ldnull", Pop0, Pushref, InlineNone},
	LdcI4M1:     {"ldc.i4.m1", Pop0, Pushi, InlineNone},
	LdcI40:      {"ldc.i4.0", Pop0, Pushi, InlineNone},
	LdcI41:      {"ldc.i4.1", Pop0, Pushi, InlineNone},
	LdcI42:      {"ldc.i4.2", Pop0, Pushi, InlineNone},
	LdcI43:      {"ldc.i4.3", Pop0, Pushi, InlineNone},
	LdcI44:      {"ldc.i4.4", Pop0, Pushi, InlineNone},
	LdcI45:      {"ldc.i4.5", Pop0, Pushi, InlineNone},
	LdcI46:      {"ldc.i4.6", Pop0, Pushi, InlineNone},
	LdcI47:      {"ldc.i4.7", Pop0, Pushi, InlineNone},
	LdcI48:      {"ldc.i4.8", Pop0, Pushi, InlineNone},
	LdcI4S:      {"ldc.i4.s", Pop0, Pushi, ShortInlineI},
	LdcI4:       {"ldc.i4", Pop0, Pushi, InlineI},
	LdcI8:       {"ldc.i8", Pop0, Pushi8, InlineI8},
	LdcR4:       {"ldc.r4", Pop0, Pushr4, ShortInlineR},
	LdcR8:       {"ldc.r8", Pop0, Pushr8, InlineR},
	Dup:         {"dup", Pop1, Push1Push1, InlineNone},
	Pop:         {"pop", Pop1, Push0, InlineNone},
	Jmp:         {"jmp", Pop0, Push0, InlineMethod},
	Call:        {"call", Varpop, Varpush, InlineMethod},
	Calli:       {"calli", Varpop, Varpush, InlineSig},
	Ret:         {"ret", Varpop, Push0, InlineNone},
	BrS:         {"br.s", Pop0, Push0, ShortInlineBrTarget},
	BrfalseS:    {"brfalse.s", Popi, Push0, ShortInlineBrTarget},
	BrtrueS:     {"brtrue.s", Popi, Push0, ShortInlineBrTarget},
	BeqS:        {"beq.s", Pop1Pop1, Push0, ShortInlineBrTarget},
	BgeS:        {"bge.s", Pop1Pop1, Push0, ShortInlineBrTarget},
	BgtS:        {"bgt.s", Pop1Pop1, Push0, ShortInlineBrTarget},
	BleS:        {"ble.s", Pop1Pop1, Push0, ShortInlineBrTarget},
	BltS:        {"blt.s", Pop1Pop1, Push0, ShortInlineBrTarget},
	BneUnS:      {"bne.un.s", Pop1Pop1, Push0, ShortInlineBrTarget},
	BgeUnS:      {"bge.un.s", Pop1Pop1, Push0, ShortInlineBrTarget},
	BgtUnS:      {"bgt.un.s", Pop1Pop1, Push0, ShortInlineBrTarget},
	BleUnS:      {"ble.un.s", Pop1Pop1, Push0, ShortInlineBrTarget},
	BltUnS:      {"blt.un.s", Pop1Pop1, Push0, ShortInlineBrTarget},
	Br:          {"br", Pop0, Push0, InlineBrTarget},
	Brfalse:     {"brfalse", Popi, Push0, InlineBrTarget},
	Brtrue:      {"brtrue", Popi, Push0, InlineBrTarget},
	Beq:         {"beq", Pop1Pop1, Push0, InlineBrTarget},
	Bge:         {"bge", Pop1Pop1, Push0, InlineBrTarget},
	Bgt:         {"bgt", Pop1Pop1, Push0, InlineBrTarget},
	Ble:         {"ble", Pop1Pop1, Push0, InlineBrTarget},
	Blt:         {"blt", Pop1Pop1, Push0, InlineBrTarget},
	BneUn:       {"bne.un", Pop1Pop1, Push0, InlineBrTarget},
	BgeUn:       {"bge.un", Pop1Pop1, Push0, InlineBrTarget},
	BgtUn:       {"bgt.un", Pop1Pop1, Push0, InlineBrTarget},
	BleUn:       {"ble.un", Pop1Pop1, Push0, InlineBrTarget},
	BltUn:       {"blt.un", Pop1Pop1, Push0, InlineBrTarget},
	Switch:      {"switch", Popi, Push0, InlineSwitch},
	LdindI1:     {"ldind.i1", Popi, Pushi, InlineNone},
	LdindU1:     {"ldind.u1", Popi, Pushi, InlineNone},
	LdindI2:     {"ldind.i2", Popi, Pushi, InlineNone},
	LdindU2:     {"ldind.u2", Popi, Pushi, InlineNone},
	LdindI4:     {"ldind.i4", Popi, Pushi, InlineNone},
	LdindU4:     {"ldind.u4", Popi, Pushi, InlineNone},
	LdindI8:     {"ldind.i8", Popi, Pushi8, InlineNone},
	LdindI:      {"ldind.i", Popi, Pushi, InlineNone},
	LdindR4:     {"ldind.r4", Popi, Pushr4, InlineNone},
	LdindR8:     {"ldind.r8", Popi, Pushr8, InlineNone},
	LdindRef:    {"ldind.ref", Popi, Pushref, InlineNone},
	StindRef:    {"stind.ref", PopiPopi, Push0, InlineNone},
	StindI1:     {"stind.i1", PopiPopi, Push0, InlineNone},
	StindI2:     {"stind.i2", PopiPopi, Push0, InlineNone},
	StindI4:     {"stind.i4", PopiPopi, Push0, InlineNone},
	StindI8:     {"stind.i8", PopiPopi8, Push0, InlineNone},
	StindR4:     {"stind.r4", PopiPopr4, Push0, InlineNone},
	StindR8:     {"stind.r8", PopiPopr8, Push0, InlineNone},
	Add:         {"add", Pop1Pop1, Push1, InlineNone},
	Sub:         {"sub", Pop1Pop1, Push1, InlineNone},
	Mul:         {"mul", Pop1Pop1, Push1, InlineNone},
	Div:         {"div", Pop1Pop1, Push1, InlineNone},
	DivUn:       {"div.un", Pop1Pop1, Push1, InlineNone},
	Rem:         {"rem", Pop1Pop1, Push1, InlineNone},
	RemUn:       {"rem.un", Pop1Pop1, Push1, InlineNone},
	And:         {"and", Pop1Pop1, Push1, InlineNone},
	Or:          {"or", Pop1Pop1, Push1, InlineNone},
	Xor:         {"xor", Pop1Pop1, Push1, InlineNone},
	Shl:         {"shl", Pop1Pop1, Push1, InlineNone},
	Shr:         {"shr", Pop1Pop1, Push1, InlineNone},
	ShrUn:       {"shr.un", Pop1Pop1, Push1, InlineNone},
	Neg:         {"neg", Pop1, Push1, InlineNone},
	Not:         {"not", Pop1, Push1, InlineNone},
	ConvI1:      {"conv.i1", Pop1, Pushi, InlineNone},
	ConvI2:      {"conv.i2", Pop1, Pushi, InlineNone},
	ConvI4:      {"conv.i4", Pop1, Pushi, InlineNone},
	ConvI8:      {"conv.i8", Pop1, Pushi8, InlineNone},
	ConvR4:      {"conv.r4", Pop1, Pushr4, InlineNone},
	ConvR8:      {"conv.r8", Pop1, Pushr8, InlineNone},
	ConvU4:      {"conv.u4", Pop1, Pushi, InlineNone},
	ConvU8:      {"conv.u8", Pop1, Pushi8, InlineNone},
	Callvirt:    {"callvirt", Varpop, Varpush, InlineMethod},
	Cpobj:       {"cpobj", PopiPopi, Push0, InlineType},
	Ldobj:       {"ldobj", Popi, Push1, InlineType},
	Ldstr:       {"ldstr", Pop0, Pushref, InlineString},
	Newobj:      {"newobj", Varpop, Pushref, InlineMethod},
	Castclass:   {"castclass", Popref, Pushref, InlineType},
	Isinst:      {"isinst", Popref, Pushi, InlineType},
	ConvRUn:     {"conv.r.un", Pop1, Pushr8, InlineNone},
	Unbox:       {"unbox", Popref, Pushi, InlineType},
	Throw:       {"throw", Popref, Push0, InlineNone},
	Ldfld:       {"ldfld", Popref, Push1, InlineField},
	Ldflda:      {"ldflda", Popref, Pushi, InlineField},
	Stfld:       {"stfld", PoprefPop1, Push0, InlineField},
	Ldsfld:      {"ldsfld", Pop0, Push1, InlineField},
	Ldsflda:     {"ldsflda", Pop0, Pushi, InlineField},
	Stsfld:      {"stsfld", Pop1, Push0, InlineField},
	Stobj:       {"stobj", PopiPop1, Push0, InlineType},
	ConvOvfI1Un: {"conv.ovf.i1.un", Pop1, Pushi, InlineNone},
	ConvOvfI2Un: {"conv.ovf.i2.un", Pop1, Pushi, InlineNone},
	ConvOvfI4Un: {"conv.ovf.i4.un", Pop1, Pushi, InlineNone},
	ConvOvfI8Un: {"conv.ovf.i8.un", Pop1, Pushi8, InlineNone},
	ConvOvfU1Un: {"conv.ovf.u1.un", Pop1, Pushi, InlineNone},
	ConvOvfU2Un: {"conv.ovf.u2.un", Pop1, Pushi, InlineNone},
	ConvOvfU4Un: {"conv.ovf.u4.un", Pop1, Pushi, InlineNone},
	ConvOvfU8Un: {"conv.ovf.u8.un", Pop1, Pushi8, InlineNone},
	ConvOvfIUn:  {"conv.ovf.i.un", Pop1, Pushi, InlineNone},
	ConvOvfUUn:  {"conv.ovf.u.un", Pop1, Pushi, InlineNone},
	Box:         {"box", Pop1, Pushref, InlineType},
	Newarr:      {"newarr", Popi, Pushref, InlineType},
	Ldlen:       {"ldlen", Popref, Pushi, InlineNone},
	Ldelema:     {"ldelema", PoprefPopi, Pushi, InlineType},
	LdelemI1:    {"ldelem.i1", PoprefPopi, Pushi, InlineNone},
	LdelemU1:    {"ldelem.u1", PoprefPopi, Pushi, InlineNone},
	LdelemI2:    {"ldelem.i2", PoprefPopi, Pushi, InlineNone},
	LdelemU2:    {"ldelem.u2", PoprefPopi, Pushi, InlineNone},
	LdelemI4:    {"ldelem.i4", PoprefPopi, Pushi, InlineNone},
	LdelemU4:    {"ldelem.u4", PoprefPopi, Pushi, InlineNone},
	LdelemI8:    {"ldelem.i8", PoprefPopi, Pushi8, InlineNone},
	LdelemI:     {"ldelem.i", PoprefPopi, Pushi, InlineNone},
	LdelemR4:    {"ldelem.r4", PoprefPopi, Pushr4, InlineNone},
	LdelemR8:    {"ldelem.r8", PoprefPopi, Pushr8, InlineNone},
	LdelemRef:   {"ldelem.ref", PoprefPopi, Pushref, InlineNone},
	StelemI:     {"stelem.i", PoprefPopiPopi, Push0, InlineNone},
	StelemI1:    {"stelem.i1", PoprefPopiPopi, Push0, InlineNone},
	StelemI2:    {"stelem.i2", PoprefPopiPopi, Push0, InlineNone},
	StelemI4:    {"stelem.i4", PoprefPopiPopi, Push0, InlineNone},
	StelemI8:    {"stelem.i8", PoprefPopiPopi8, Push0, InlineNone},
	StelemR4:    {"stelem.r4", PoprefPopiPopr4, Push0, InlineNone},
	StelemR8:    {"stelem.r8", PoprefPopiPopr8, Push0, InlineNone},
	StelemRef:   {"stelem.ref", PoprefPopiPopref, Push0, InlineNone},
	Ldelem:      {"ldelem", PoprefPopi, Push1, InlineType},
	Stelem:      {"stelem", PoprefPopiPop1, Push0, InlineType},
	UnboxAny:    {"unbox.any", Popref, Push1, InlineType},
	ConvOvfI1:   {"conv.ovf.i1", Pop1, Pushi, InlineNone},
	ConvOvfU1:   {"conv.ovf.u1", Pop1, Pushi, InlineNone},
	ConvOvfI2:   {"conv.ovf.i2", Pop1, Pushi, InlineNone},
	ConvOvfU2:   {"conv.ovf.u2", Pop1, Pushi, InlineNone},
	ConvOvfI4:   {"conv.ovf.i4", Pop1, Pushi, InlineNone},
	ConvOvfU4:   {"conv.ovf.u4", Pop1, Pushi, InlineNone},
	ConvOvfI8:   {"conv.ovf.i8", Pop1, Pushi8, InlineNone},
	ConvOvfU8:   {"conv.ovf.u8", Pop1, Pushi8, InlineNone},
	Refanyval:   {"refanyval", Pop1, Pushi, InlineType},
	Ckfinite:    {"ckfinite", Pop1, Pushr8, InlineNone},
	Mkrefany:    {"mkrefany", Popi, Push1, InlineType},
	Ldtoken:     {"ldtoken", Pop0, Pushi, InlineTok},
	ConvU2:      {"conv.u2", Pop1, Pushi, InlineNone},
	ConvU1:      {"conv.u1", Pop1, Pushi, InlineNone},
	ConvI:       {"conv.i", Pop1, Pushi, InlineNone},
	ConvOvfI:    {"conv.ovf.i", Pop1, Pushi, InlineNone},
	ConvOvfU:    {"conv.ovf.u", Pop1, Pushi, InlineNone},
	AddOvf:      {"add.ovf", Pop1Pop1, Push1, InlineNone},
	AddOvfUn:    {"add.ovf.un", Pop1Pop1, Push1, InlineNone},
	MulOvf:      {"mul.ovf", Pop1Pop1, Push1, InlineNone},
	MulOvfUn:    {"mul.ovf.un", Pop1Pop1, Push1, InlineNone},
	SubOvf:      {"sub.ovf", Pop1Pop1, Push1, InlineNone},
	SubOvfUn:    {"sub.ovf.un", Pop1Pop1, Push1, InlineNone},
	Endfinally:  {"endfinally", PopAll, Push0, InlineNone},
	Leave:       {"leave", PopAll, Push0, InlineBrTarget},
	LeaveS:      {"leave.s", PopAll, Push0, ShortInlineBrTarget},
	StindI:      {"stind.i", PopiPopi, Push0, InlineNone},
	ConvU:       {"conv.u", Pop1, Pushi, InlineNone},
	Prefix1:     {"prefix1", Pop0, Push0, InlineNone},
}

var extOpcodes = [256]Info{
	Arglist:     {"arglist", Pop0, Pushi, InlineNone},
	Ceq:         {"ceq", Pop1Pop1, Pushi, InlineNone},
	Cgt:         {"cgt", Pop1Pop1, Pushi, InlineNone},
	CgtUn:       {"cgt.un", Pop1Pop1, Pushi, InlineNone},
	Clt:         {"clt", Pop1Pop1, Pushi, InlineNone},
	CltUn:       {"clt.un", Pop1Pop1, Pushi, InlineNone},
	Ldftn:       {"ldftn", Pop0, Pushi, InlineMethod},
	Ldvirtftn:   {"ldvirtftn", Popref, Pushi, InlineMethod},
	Ldarg:       {"ldarg", Pop0, Push1, InlineVar},
	Ldarga:      {"ldarga", Pop0, Pushi, InlineVar},
	Starg:       {"starg", Pop1, Push0, InlineVar},
	Ldloc:       {"ldloc", Pop0, Push1, InlineVar},
	Ldloca:      {"ldloca", Pop0, Pushi, InlineVar},
	Stloc:       {"stloc", Pop1, Push0, InlineVar},
	Localloc:    {"localloc", Popi, Pushi, InlineNone},
	Endfilter:   {"endfilter", Popi, Push0, InlineNone},
	Unaligned:   {"unaligned.", Pop0, Push0, ShortInlineI},
	Volatile:    {"volatile.", Pop0, Push0, InlineNone},
	Tail:        {"tail.", Pop0, Push0, InlineNone},
	Initobj:     {"initobj", Popi, Push0, InlineType},
	Constrained: {"constrained.", Pop0, Push0, InlineType},
	Cpblk:       {"cpblk", PopiPopiPopi, Push0, InlineNone},
	Initblk:     {"initblk", PopiPopiPopi, Push0, InlineNone},
	No:          {"no.", Pop0, Push0, ShortInlineI},
	Rethrow:     {"rethrow", Pop0, Push0, InlineNone},
	Sizeof:      {"sizeof", Pop0, Pushi, InlineType},
	Refanytype:  {"refanytype", Pop1, Pushi, InlineNone},
	Readonly:    {"readonly.", Pop0, Push0, InlineNone},
}

// Lookup returns the metadata of op, or of ext when op is Prefix1.
// ok is false when the pair does not name a defined instruction.
func Lookup(op Opcode, ext ExtOpcode) (Info, bool) {
	if op == Prefix1 {
		info := extOpcodes[ext]
		return info, info.Name != ""
	}
	info := opcodes[op]
	return info, info.Name != ""
}

func (op Opcode) String() string {
	if info := opcodes[op]; info.Name != "" {
		return info.Name
	}
	return fmt.Sprintf("opcode(0x%02X)", uint8(op))
}

func (op ExtOpcode) String() string {
	if info := extOpcodes[op]; info.Name != "" {
		return info.Name
	}
	return fmt.Sprintf("opcode(0xFE%02X)", uint8(op))
}

// Mnemonic returns the instruction name of an (op, ext) pair.
func Mnemonic(op Opcode, ext ExtOpcode) string {
	if op == Prefix1 {
		return ext.String()
	}
	return op.String()
}

// All calls fn for every defined instruction in encoding order: single-byte
// opcodes first, then the Prefix1 extended set. Prefix1 itself is skipped.
func All(fn func(op Opcode, ext ExtOpcode, info Info)) {
	for i := range opcodes {
		if opcodes[i].Name == "" || Opcode(i) == Prefix1 {
			continue
		}
		fn(Opcode(i), 0, opcodes[i])
	}
	for i := range extOpcodes {
		if extOpcodes[i].Name == "" {
			continue
		}
		fn(Prefix1, ExtOpcode(i), extOpcodes[i])
	}
}

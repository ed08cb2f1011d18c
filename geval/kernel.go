package geval

import "fmt"

// sceneKernel returns the compute shader source for evaluating an encoded
// record stream at invocX invocations per workgroup.
func sceneKernel(invocX int) string {
	return fmt.Sprintf(sceneKernelSrc, invocX)
}

// sceneKernelSrc evaluates the gmarch record stream: 24 words per record
// holding center, inverse rotation columns, shape vec4 and vec2, albedo,
// specular, op code and blend radius. Positions are read as a packed scalar
// float array since std430 rounds vec3 array strides up to 16 bytes while the
// host buffers are tightly packed 12 byte vectors.
const sceneKernelSrc = `#version 430

layout(local_size_x = %d, local_size_y = 1, local_size_z = 1) in;

// Input: packed 3D positions at which to evaluate the scene.
layout(std430, binding = 0) buffer PositionsBuffer {
	float vbo_positions[];
};

// Output: scene distances. Maps to position buffer.
layout(std430, binding = 1) buffer DistancesBuffer {
	float vbo_distances[];
};

// Encoded scene records, RECORD_WORDS words each.
layout(std430, binding = 2) readonly buffer SceneBuffer {
	uint scene_words[];
};

const uint RECORD_WORDS = 24u;
const float BACKGROUND = 1.0e20;

float rec_f(uint base, uint off) {
	return uintBitsToFloat(scene_words[base+off]);
}

vec3 rec_v3(uint base, uint off) {
	return vec3(rec_f(base, off), rec_f(base, off+1u), rec_f(base, off+2u));
}

float shape_distance(uint base, vec3 p) {
	vec3 ext = rec_v3(base, 12u);
	float w = rec_f(base, 15u);
	float r1 = rec_f(base, 16u);
	float r2 = rec_f(base, 17u);
	if (w > 0.0) {
		if (ext == vec3(0.0)) {
			if (r2 == 0.0) {
				// Torus about the Z axis.
				vec2 t = vec2(length(p.xy) - w, p.z);
				return length(t) - r1;
			}
			// Capped torus with aperture angle r2.
			vec2 sc = vec2(sin(r2), cos(r2));
			p.x = abs(p.x);
			float k = (sc.y*p.x > sc.x*p.y) ? dot(p.xy, sc) : length(p.xy);
			return sqrt(dot(p, p) + w*w - 2.0*w*k) - r1;
		}
		// Box frame with beam half thickness w.
		p = abs(p) - ext;
		vec3 q = abs(p + w) - w;
		float n1 = length(max(vec3(p.x, q.y, q.z), 0.0)) + min(max(p.x, max(q.y, q.z)), 0.0);
		float n2 = length(max(vec3(q.x, p.y, q.z), 0.0)) + min(max(q.x, max(p.y, q.z)), 0.0);
		float n3 = length(max(vec3(q.x, q.y, p.z), 0.0)) + min(max(q.x, max(q.y, p.z)), 0.0);
		return min(n1, min(n2, n3));
	}
	// Box family: ext is the core extent, r1 the rounding. Zero extents
	// degenerate to the sphere of radius r1 and positive r2 hollows the
	// surface into a shell.
	vec3 q = abs(p) - ext;
	float d = length(max(q, 0.0)) + min(max(q.x, max(q.y, q.z)), 0.0) - r1;
	if (r2 > 0.0) {
		d = abs(d) - r2;
	}
	return d;
}

float combine_op(uint op, float k, float a, float b) {
	if (op == 1u) { // union
		if (k > 0.0) {
			float h = clamp(0.5 + 0.5*(b - a)/k, 0.0, 1.0);
			return mix(b, a, h) - k*h*(1.0 - h);
		}
		return min(a, b);
	} else if (op == 2u || op == 3u) { // intersection, subtraction
		if (op == 3u) {
			b = -b;
		}
		if (k > 0.0) {
			float h = clamp(0.5 - 0.5*(b - a)/k, 0.0, 1.0);
			return mix(b, a, h) + k*h*(1.0 - h);
		}
		return max(a, b);
	}
	return a; // nop
}

float scene_map(vec3 p) {
	uint n = uint(scene_words.length()) / RECORD_WORDS;
	float acc = BACKGROUND;
	for (uint i = 0u; i < n; i++) {
		uint base = i * RECORD_WORDS;
		vec3 center = rec_v3(base, 0u);
		mat3 inv = mat3(rec_v3(base, 3u), rec_v3(base, 6u), rec_v3(base, 9u));
		float d = shape_distance(base, inv * (p - center));
		acc = combine_op(scene_words[base+22u], rec_f(base, 23u), acc, d);
	}
	return acc;
}

void main() {
	uint idx = gl_GlobalInvocationID.x;
	if (idx >= uint(vbo_distances.length())) {
		return;
	}
	vec3 p = vec3(vbo_positions[3u*idx], vbo_positions[3u*idx+1u], vbo_positions[3u*idx+2u]);
	vbo_distances[idx] = scene_map(p);
}
` + "\x00"
